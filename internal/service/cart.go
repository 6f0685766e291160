package service

import (
	"context"
	"errors"
	"fmt"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/repository"

	"gorm.io/gorm"
)

// CartLine joins a cart item with its current catalog product.
type CartLine struct {
	Product  *model.Product
	Quantity int64
}

type CartView struct {
	Items []*CartLine
	// Version of the cart at snapshot time.
	Version int64
}

type CartService interface {
	AddItem(ctx context.Context, userID, productID string, delta int64) (*CartView, error)
	// RemoveItem decrements by delta; delta <= 0 removes the item entirely.
	RemoveItem(ctx context.Context, userID, productID string, delta int64) (*CartView, error)
	Snapshot(ctx context.Context, userID string) (*CartView, error)
}

type cartServiceImpl struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, productID string, delta int64) (*CartView, error) {
	if delta <= 0 {
		return nil, apperr.ErrMalformedRequest.WithMessage("quantity must be positive")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidProduct
		}
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		// Serializes against concurrent mutations and in-flight placements.
		if err := s.cartRepo.BumpVersion(ctx, tx, userID, cart.Version); err != nil {
			return err
		}

		return s.cartRepo.UpsertItem(ctx, tx, &model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  delta,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperr.ErrCartConflict.WithCause(err)
		}
		return nil, err
	}

	return s.Snapshot(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string, delta int64) (*CartView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		item, err := s.cartRepo.FindItem(ctx, tx, userID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrItemNotFound
			}
			return fmt.Errorf("find cart item: %w", err)
		}

		if err := s.cartRepo.BumpVersion(ctx, tx, userID, cart.Version); err != nil {
			return err
		}

		remaining := item.Quantity - delta
		if delta <= 0 || remaining <= 0 {
			return s.cartRepo.DeleteItem(ctx, tx, userID, productID)
		}

		return s.cartRepo.SetItemQuantity(ctx, tx, userID, productID, remaining)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperr.ErrCartConflict.WithCause(err)
		}
		return nil, err
	}

	return s.Snapshot(ctx, userID)
}

func (s *cartServiceImpl) Snapshot(ctx context.Context, userID string) (*CartView, error) {
	var view *CartView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		items, err := s.cartRepo.GetItems(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}

		view = &CartView{Version: cart.Version, Items: make([]*CartLine, 0, len(items))}
		if len(items) == 0 {
			return nil
		}

		productIDs := make([]string, len(items))
		for i, item := range items {
			productIDs[i] = item.ProductID
		}

		products, err := s.productRepo.FindMany(ctx, tx, productIDs)
		if err != nil {
			return fmt.Errorf("load cart products: %w", err)
		}

		productMap := make(map[string]*model.Product, len(products))
		for _, p := range products {
			productMap[p.ID] = p
		}

		for _, item := range items {
			product, ok := productMap[item.ProductID]
			if !ok {
				// Catalog entry disappeared under the cart; skip the line
				// rather than fail the read.
				continue
			}
			view.Items = append(view.Items, &CartLine{Product: product, Quantity: item.Quantity})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}
