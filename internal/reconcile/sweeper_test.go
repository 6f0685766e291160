package reconcile

import (
	"context"
	"testing"
	"time"

	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.PaymentIntent{}, &model.Order{}))
	return db
}

func TestSweepOnce_FlagsOrphans(t *testing.T) {
	db := newTestDB(t)
	old := time.Now().Add(-time.Hour)

	// succeeded, old, no order: the orphan
	require.NoError(t, db.Create(&model.PaymentIntent{
		ExternalID: "pi_orphan", UserID: "user-1", CartFingerprint: "fp1",
		Amount: 2500, Currency: "USD", Status: model.IntentStatusSucceeded,
		CreatedAt: old,
	}).Error)

	// succeeded but matched by an order
	require.NoError(t, db.Create(&model.PaymentIntent{
		ExternalID: "pi_matched", UserID: "user-1", CartFingerprint: "fp2",
		Amount: 1000, Currency: "USD", Status: model.IntentStatusSucceeded,
		CreatedAt: old,
	}).Error)
	require.NoError(t, db.Create(&model.Order{
		ID: "order-1", UserID: "user-1", PaymentIntentID: "pi_matched",
		TotalAmount: 1000, Currency: "USD", DeliveryAddress: "addr",
		Status: model.OrderStatusPlaced,
	}).Error)

	// succeeded but too recent to flag
	require.NoError(t, db.Create(&model.PaymentIntent{
		ExternalID: "pi_fresh", UserID: "user-2", CartFingerprint: "fp3",
		Amount: 500, Currency: "USD", Status: model.IntentStatusSucceeded,
		CreatedAt: time.Now(),
	}).Error)

	// never succeeded
	require.NoError(t, db.Create(&model.PaymentIntent{
		ExternalID: "pi_open", UserID: "user-3", CartFingerprint: "fp4",
		Amount: 700, Currency: "USD", Status: model.IntentStatusRequiresPayment,
		CreatedAt: old,
	}).Error)

	sweeper := NewSweeper(repository.NewIntentRepository(db), time.Minute, 15*time.Minute)
	require.NoError(t, sweeper.SweepOnce(context.Background()))

	var flagged []model.PaymentIntent
	require.NoError(t, db.Where("flagged = ?", true).Find(&flagged).Error)
	require.Len(t, flagged, 1)
	assert.Equal(t, "pi_orphan", flagged[0].ExternalID)

	// a second sweep does not re-flag
	require.NoError(t, sweeper.SweepOnce(context.Background()))
	var count int64
	require.NoError(t, db.Model(&model.PaymentIntent{}).Where("flagged = ?", true).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
