package client

import (
	"log"
	"strings"
	"time"

	"shop-checkout-service/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDBClient opens the store. A mysql:// style DSN selects the mysql
// driver; anything else is treated as a sqlite file path (dev default).
func InitDBClient(databaseURL string) *gorm.DB {
	var dialector gorm.Dialector
	if strings.Contains(databaseURL, "@tcp(") || strings.HasPrefix(databaseURL, "mysql://") {
		dsn := strings.TrimPrefix(databaseURL, "mysql://")
		dialector = mysql.Open(dsn)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.PaymentIntent{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
