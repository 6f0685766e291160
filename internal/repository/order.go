package repository

import (
	"context"

	"shop-checkout-service/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByUser(ctx context.Context, userID string) ([]*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
	ExistsForIntent(ctx context.Context, intentID string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *orderRepoImpl) ExistsForIntent(ctx context.Context, intentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_intent_id = ?", intentID).
		Count(&count).Error

	return count > 0, err
}
