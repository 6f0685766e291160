package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey;size:64;not null"`
	Name         string `gorm:"size:128;not null"`
	Email        string `gorm:"size:128;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Product struct {
	ID          string `gorm:"primaryKey;size:64;not null"` // product sku
	Name        string `gorm:"size:128;not null"`
	Description string `gorm:"size:512"`
	Price       int64  `gorm:"not null"` // minor currency units
	Currency    string `gorm:"size:8;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Cart carries the per-user version used to serialize mutations. Items
// live in CartItem rows keyed by the same user.
type Cart struct {
	UserID    string `gorm:"primaryKey;size:64;not null"`
	Version   int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

type CartItem struct {
	UserID    string `gorm:"primaryKey;size:64;not null"`
	ProductID string `gorm:"primaryKey;size:64;not null"`
	Quantity  int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	IntentStatusRequiresPayment = "requires_payment"
	IntentStatusSucceeded       = "succeeded"
	IntentStatusFailed          = "failed"
)

// PaymentIntent mirrors the gateway-side record. Amount and currency are
// immutable after creation; status moves only on gateway answers.
type PaymentIntent struct {
	ExternalID      string `gorm:"primaryKey;size:128;not null"` // gateway intent id
	UserID          string `gorm:"size:64;index;not null"`
	CartFingerprint string `gorm:"size:128;index;not null"`
	Amount          int64  `gorm:"not null"` // minor currency units
	Currency        string `gorm:"size:8;not null"`
	Status          string `gorm:"size:32;index;not null"`
	ClientSecret    string `gorm:"size:256"`
	// Flagged marks intents the reconcile sweep reported as succeeded
	// with no matching order.
	Flagged   bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const OrderStatusPlaced = "placed"

type Order struct {
	ID              string `gorm:"primaryKey;size:64;not null"`
	UserID          string `gorm:"size:64;index;not null"`
	PaymentIntentID string `gorm:"size:128;uniqueIndex;not null"`
	TotalAmount     int64  `gorm:"not null"` // minor currency units, server-recomputed
	Currency        string `gorm:"size:8;not null"`
	DeliveryAddress string `gorm:"size:512;not null"`
	Status          string `gorm:"size:32;index;not null"`
	CreatedAt       time.Time
}

// OrderItem freezes the unit price and product name at order time; later
// catalog changes must not alter historical orders.
type OrderItem struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     string `gorm:"size:64;index;not null"`
	ProductID   string `gorm:"size:64;index;not null"`
	ProductName string `gorm:"size:128;not null"`
	Quantity    int64  `gorm:"not null"`
	UnitPrice   int64  `gorm:"not null"` // minor currency units
	Currency    string `gorm:"size:8;not null"`
	CreatedAt   time.Time
}
