package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/client"
	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/repository"

	"shop-checkout-service/pkg/money"

	"gorm.io/gorm"
)

type PaymentService interface {
	// CreateIntent mints a gateway payment intent for the user's current
	// cart, or returns the existing open intent when the cart has not
	// changed since the last attempt.
	CreateIntent(ctx context.Context, userID string, amount money.Money, currency string) (*model.PaymentIntent, error)
	ConfirmIntent(ctx context.Context, userID, intentID, paymentMethod string) (*model.PaymentIntent, error)
	// RetrieveIntent asks the gateway for the authoritative status and
	// syncs the stored record. Never trusts the stored status alone.
	// Only the owning user's intents resolve.
	RetrieveIntent(ctx context.Context, userID, intentID string) (*model.PaymentIntent, error)
	// HandlePayment verifies a client-reported success against the gateway.
	HandlePayment(ctx context.Context, userID, intentID string) (*model.PaymentIntent, error)
	// FindIntentForCart resolves the intent belonging to a checkout
	// attempt from the cart lines being placed.
	FindIntentForCart(ctx context.Context, userID string, lines []*CartLine) (*model.PaymentIntent, error)
}

type paymentServiceImpl struct {
	stripeClient client.StripeClient
	intentRepo   repository.IntentRepository
	cartRepo     repository.CartRepository
	db           *gorm.DB
}

func NewPaymentService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	intentRepo repository.IntentRepository,
	cartRepo repository.CartRepository,
) PaymentService {
	return &paymentServiceImpl{
		db:           db,
		stripeClient: stripeClient,
		intentRepo:   intentRepo,
		cartRepo:     cartRepo,
	}
}

// cartFingerprint identifies one checkout attempt: same user, same cart
// lines, same amount hash to the same key.
func cartFingerprint(userID string, items []*model.CartItem, amountMinor int64) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%s:%d", item.ProductID, item.Quantity)
	}
	sort.Strings(lines)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d", userID, strings.Join(lines, ","), amountMinor)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *paymentServiceImpl) CreateIntent(ctx context.Context, userID string, amount money.Money, currency string) (*model.PaymentIntent, error) {
	amountMinor := amount.MinorUnits()
	if amountMinor <= 0 {
		return nil, apperr.ErrInvalidAmount
	}

	items, err := s.cartRepo.GetItems(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	fingerprint := cartFingerprint(userID, items, amountMinor)

	// Reuse the open intent for an identical attempt instead of minting
	// another authorization.
	existing, err := s.intentRepo.FindOpenByFingerprint(ctx, userID, fingerprint)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up open intent: %w", err)
	}

	gwIntent, err := s.stripeClient.CreateIntent(ctx, amountMinor, currency, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("gateway create intent: %w", err)
	}

	intent := &model.PaymentIntent{
		ExternalID:      gwIntent.ID,
		UserID:          userID,
		CartFingerprint: fingerprint,
		Amount:          amountMinor,
		Currency:        currency,
		Status:          model.IntentStatusRequiresPayment,
		ClientSecret:    gwIntent.ClientSecret,
	}
	if err := s.intentRepo.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("store intent: %w", err)
	}

	return intent, nil
}

func (s *paymentServiceImpl) ConfirmIntent(ctx context.Context, userID, intentID, paymentMethod string) (*model.PaymentIntent, error) {
	intent, err := s.intentRepo.FindByExternalID(ctx, userID, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMalformedRequest.WithMessage("unknown payment intent")
		}
		return nil, fmt.Errorf("load intent: %w", err)
	}

	gwIntent, err := s.stripeClient.ConfirmIntent(ctx, intentID, paymentMethod)
	if err != nil {
		// A decline leaves the intent open for a retry with another method.
		return nil, fmt.Errorf("gateway confirm intent: %w", err)
	}

	return s.syncStatus(ctx, intent, gwIntent.Status)
}

func (s *paymentServiceImpl) RetrieveIntent(ctx context.Context, userID, intentID string) (*model.PaymentIntent, error) {
	intent, err := s.intentRepo.FindByExternalID(ctx, userID, intentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMalformedRequest.WithMessage("unknown payment intent")
		}
		return nil, fmt.Errorf("load intent: %w", err)
	}

	gwIntent, err := s.stripeClient.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("gateway retrieve intent: %w", err)
	}

	return s.syncStatus(ctx, intent, gwIntent.Status)
}

func (s *paymentServiceImpl) HandlePayment(ctx context.Context, userID, intentID string) (*model.PaymentIntent, error) {
	intent, err := s.RetrieveIntent(ctx, userID, intentID)
	if err != nil {
		return nil, err
	}

	if intent.Status != model.IntentStatusSucceeded {
		return nil, apperr.ErrPaymentNotConfirmed
	}

	return intent, nil
}

func (s *paymentServiceImpl) FindIntentForCart(ctx context.Context, userID string, lines []*CartLine) (*model.PaymentIntent, error) {
	total := money.Zero()
	items := make([]*model.CartItem, len(lines))
	for i, line := range lines {
		total = total.Add(money.FromMinorUnits(line.Product.Price).MulInt(line.Quantity))
		items[i] = &model.CartItem{ProductID: line.Product.ID, Quantity: line.Quantity}
	}

	fingerprint := cartFingerprint(userID, items, total.MinorUnits())
	return s.intentRepo.FindLatestByFingerprint(ctx, userID, fingerprint)
}

// syncStatus maps a gateway status onto the stored record.
func (s *paymentServiceImpl) syncStatus(ctx context.Context, intent *model.PaymentIntent, gatewayStatus string) (*model.PaymentIntent, error) {
	var status string
	switch gatewayStatus {
	case "succeeded":
		status = model.IntentStatusSucceeded
	case "canceled", "failed":
		status = model.IntentStatusFailed
	default:
		// requires_payment_method, requires_confirmation, processing and
		// friends all mean the payment has not succeeded yet.
		status = model.IntentStatusRequiresPayment
	}

	if status != intent.Status {
		if err := s.intentRepo.UpdateStatus(ctx, intent.ExternalID, status); err != nil {
			return nil, fmt.Errorf("sync intent status: %w", err)
		}
		intent.Status = status
	}

	return intent, nil
}
