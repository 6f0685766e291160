package service

import (
	"context"
	"fmt"
	"testing"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/client"
	"shop-checkout-service/internal/model"

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
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.PaymentIntent{},
		&model.Order{},
		&model.OrderItem{},
	))

	return db
}

func seedProducts(t *testing.T, db *gorm.DB, products ...model.Product) {
	t.Helper()
	require.NoError(t, db.Create(&products).Error)
}

// MockStripeClient implements client.StripeClient for testing.
type MockStripeClient struct {
	nextID int
	// Statuses maps intent id to the status RetrieveIntent reports.
	Statuses map[string]string
	// ConfirmErr is returned by ConfirmIntent when set.
	ConfirmErr error
	// CreateErr is returned by CreateIntent when set.
	CreateErr error
	// CreateCalls counts gateway-side intent creations.
	CreateCalls int
	// RetrieveHook runs before RetrieveIntent answers when set. Lets a
	// test interleave work with an in-flight gateway round trip.
	RetrieveHook func()
}

func NewMockStripeClient() *MockStripeClient {
	return &MockStripeClient{Statuses: map[string]string{}}
}

func (m *MockStripeClient) CreateIntent(_ context.Context, amount int64, currency, _ string) (*client.Intent, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreateCalls++
	m.nextID++
	id := fmt.Sprintf("pi_%03d", m.nextID)
	m.Statuses[id] = "requires_payment_method"
	return &client.Intent{
		ID:           id,
		Amount:       amount,
		Currency:     currency,
		Status:       "requires_payment_method",
		ClientSecret: id + "_secret",
	}, nil
}

func (m *MockStripeClient) ConfirmIntent(_ context.Context, intentID, _ string) (*client.Intent, error) {
	if m.ConfirmErr != nil {
		return nil, m.ConfirmErr
	}
	m.Statuses[intentID] = "succeeded"
	return &client.Intent{ID: intentID, Status: "succeeded"}, nil
}

func (m *MockStripeClient) RetrieveIntent(_ context.Context, intentID string) (*client.Intent, error) {
	if m.RetrieveHook != nil {
		m.RetrieveHook()
	}
	status, ok := m.Statuses[intentID]
	if !ok {
		return nil, apperr.ErrGatewayUnavailable
	}
	return &client.Intent{ID: intentID, Status: status}, nil
}
