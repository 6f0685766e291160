package repository

import (
	"context"

	"shop-checkout-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	// FindMany runs on the caller's transaction so cart snapshots read
	// the catalog inside the same view as the cart rows.
	FindMany(ctx context.Context, tx *gorm.DB, productIDs []string) ([]*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "sneaker_classic", Name: "Classic Sneaker", Description: "Everyday low-top sneaker", Price: 4999, Currency: "USD"},
		{ID: "hoodie_basic", Name: "Basic Hoodie", Description: "Mid-weight cotton hoodie", Price: 3500, Currency: "USD"},
		{ID: "tee_logo", Name: "Logo Tee", Description: "Crew-neck logo tee", Price: 1500, Currency: "USD"},
		{ID: "cap_snapback", Name: "Snapback Cap", Description: "Adjustable snapback cap", Price: 1999, Currency: "USD"},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, tx *gorm.DB, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := tx.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
