package service

import (
	"context"
	"errors"
	"fmt"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/repository"

	"shop-checkout-service/pkg/money"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestedLine is one (product, quantity) pair from a placement request.
type RequestedLine struct {
	ProductID string
	Quantity  int64
}

type OrderView struct {
	Order *model.Order
	Items []*model.OrderItem
}

type OrderService interface {
	// PlaceOrder validates the request against the current cart and the
	// gateway-confirmed payment, persists the order and clears the cart
	// as one transaction.
	PlaceOrder(ctx context.Context, userID string, lines []RequestedLine, address string, claimedTotal money.Money) (*OrderView, error)
	ListOrders(ctx context.Context, userID string) ([]*OrderView, error)
}

type orderServiceImpl struct {
	db             *gorm.DB
	cartService    CartService
	paymentService PaymentService
	cartRepo       repository.CartRepository
	orderRepo      repository.OrderRepository
}

func NewOrderService(
	db *gorm.DB,
	cartService CartService,
	paymentService PaymentService,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
) OrderService {
	return &orderServiceImpl{
		db:             db,
		cartService:    cartService,
		paymentService: paymentService,
		cartRepo:       cartRepo,
		orderRepo:      orderRepo,
	}
}

func (s *orderServiceImpl) PlaceOrder(ctx context.Context, userID string, lines []RequestedLine, address string, claimedTotal money.Money) (*OrderView, error) {
	// 1. Structural validation.
	if len(lines) == 0 {
		return nil, apperr.ErrMalformedRequest.WithMessage("order must contain at least one product")
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity < 1 {
			return nil, apperr.ErrMalformedRequest.WithMessage("each product needs an id and a quantity of at least 1")
		}
		if seen[line.ProductID] {
			return nil, apperr.ErrMalformedRequest.WithMessage("duplicate product in order")
		}
		seen[line.ProductID] = true
	}

	// 2. The request must match the cart exactly: same products, same
	// quantities, nothing more, nothing less.
	cart, err := s.cartService.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}

	if len(cart.Items) != len(lines) {
		return nil, apperr.ErrCartMismatch
	}
	cartQuantities := make(map[string]int64, len(cart.Items))
	for _, item := range cart.Items {
		cartQuantities[item.Product.ID] = item.Quantity
	}
	for _, line := range lines {
		if cartQuantities[line.ProductID] != line.Quantity {
			return nil, apperr.ErrCartMismatch
		}
	}

	// 3. Recompute the total from current catalog prices; the claimed
	// total is only checked, never persisted.
	currency := cart.Items[0].Product.Currency
	recomputed := money.Zero()
	orderItems := make([]*model.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		// minor units of different currencies must never be summed
		if item.Product.Currency != currency {
			return nil, apperr.ErrMalformedRequest.WithMessage("cart mixes currencies")
		}
		recomputed = recomputed.Add(money.FromMinorUnits(item.Product.Price).MulInt(item.Quantity))

		orderItems[i] = &model.OrderItem{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			Currency:    item.Product.Currency,
		}
	}
	if !recomputed.WithinOneMinorUnit(claimedTotal) {
		return nil, apperr.ErrAmountMismatch
	}

	// 4. Re-verify the payment with the gateway. The client's claim that
	// it paid is never trusted.
	intent, err := s.paymentService.FindIntentForCart(ctx, userID, cart.Items)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPaymentNotConfirmed
		}
		return nil, fmt.Errorf("resolve payment intent: %w", err)
	}

	intent, err = s.paymentService.RetrieveIntent(ctx, userID, intent.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("verify payment intent: %w", err)
	}
	if intent.Status != model.IntentStatusSucceeded {
		return nil, apperr.ErrPaymentNotConfirmed
	}

	taken, err := s.orderRepo.ExistsForIntent(ctx, intent.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("check intent reuse: %w", err)
	}
	if taken {
		return nil, apperr.ErrCartMismatch.WithMessage("payment already used for an order")
	}

	// 5 + 6. Persist the order and clear the cart atomically. The version
	// check aborts if the cart moved since the snapshot, so placement is
	// mutually exclusive with concurrent mutations.
	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		PaymentIntentID: intent.ExternalID,
		TotalAmount:     recomputed.MinorUnits(),
		Currency:        currency,
		DeliveryAddress: address,
		Status:          model.OrderStatusPlaced,
	}
	for _, item := range orderItems {
		item.OrderID = order.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cartRepo.BumpVersion(ctx, tx, userID, cart.Version); err != nil {
			return err
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}
		return s.cartRepo.ClearItems(ctx, tx, userID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperr.ErrCartConflict.WithCause(err)
		}
		return nil, apperr.ErrPersistence.WithCause(err)
	}

	return &OrderView{Order: order, Items: orderItems}, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID string) ([]*OrderView, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	views := make([]*OrderView, len(orders))
	for i, order := range orders {
		items, err := s.orderRepo.GetOrderItems(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("load order items: %w", err)
		}
		views[i] = &OrderView{Order: order, Items: items}
	}

	return views, nil
}
