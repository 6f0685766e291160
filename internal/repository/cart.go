package repository

import (
	"context"
	"errors"
	"time"

	"shop-checkout-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVersionConflict means a concurrent mutation won the version race;
// the caller should reload and retry.
var ErrVersionConflict = errors.New("cart version conflict")

type CartRepository interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error)
	GetItems(ctx context.Context, tx *gorm.DB, userID string) ([]*model.CartItem, error)
	FindItem(ctx context.Context, tx *gorm.DB, userID, productID string) (*model.CartItem, error)
	UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error
	SetItemQuantity(ctx context.Context, tx *gorm.DB, userID, productID string, quantity int64) error
	DeleteItem(ctx context.Context, tx *gorm.DB, userID, productID string) error
	ClearItems(ctx context.Context, tx *gorm.DB, userID string) error
	// BumpVersion performs the optimistic check that serializes per-user
	// mutations: it fails with ErrVersionConflict when the cart moved
	// since expectedVersion was read.
	BumpVersion(ctx context.Context, tx *gorm.DB, userID string, expectedVersion int64) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) GetOrCreate(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := tx.WithContext(ctx).
		Where(model.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) GetItems(ctx context.Context, tx *gorm.DB, userID string) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, product_id").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) FindItem(ctx context.Context, tx *gorm.DB, userID, productID string) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) UpsertItem(ctx context.Context, tx *gorm.DB, item *model.CartItem) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
}

func (r *cartRepoImpl) SetItemQuantity(ctx context.Context, tx *gorm.DB, userID, productID string, quantity int64) error {
	return tx.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, tx *gorm.DB, userID, productID string) error {
	return tx.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) ClearItems(ctx context.Context, tx *gorm.DB, userID string) error {
	return tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) BumpVersion(ctx context.Context, tx *gorm.DB, userID string, expectedVersion int64) error {
	result := tx.WithContext(ctx).Model(&model.Cart{}).
		Where("user_id = ? AND version = ?", userID, expectedVersion).
		Updates(map[string]interface{}{
			"version":    expectedVersion + 1,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}
