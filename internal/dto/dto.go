package dto

import (
	"encoding/json"
	"time"
)

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserPayload `json:"user"`
}

type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"` // decimal string, two places
	Currency    string `json:"currency"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type RemoveCartItemRequest struct {
	ProductID string `json:"productId"`
	// Quantity omitted or zero removes the item entirely.
	Quantity int64 `json:"quantity,omitempty"`
}

type CartItemPayload struct {
	Product  *ProductPayload `json:"product"`
	Quantity int64           `json:"quantity"`
}

type CartResponse struct {
	Items []*CartItemPayload `json:"items"`
}

type CreateIntentRequest struct {
	// Amount in minor currency units.
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type HandlePaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type PaymentDetails struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type HandlePaymentResponse struct {
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	PaymentDetails *PaymentDetails `json:"paymentDetails,omitempty"`
}

type OrderLine struct {
	ProductID string `json:"product"`
	Quantity  int64  `json:"quantity"`
}

type PlaceOrderRequest struct {
	Products []OrderLine `json:"products"`
	Address  string      `json:"address"`
	// TotalAmount accepts "25.00" or 25.00; parsed as fixed-point, never
	// as float64.
	TotalAmount json.Number `json:"totalAmount"`
}

type OrderItemPayload struct {
	Product   *ProductPayload `json:"product"`
	Quantity  int64           `json:"quantity"`
	UnitPrice string          `json:"unitPrice"`
}

type OrderPayload struct {
	ID          string              `json:"id"`
	Items       []*OrderItemPayload `json:"products"`
	TotalAmount string              `json:"totalAmount"`
	Currency    string              `json:"currency"`
	Address     string              `json:"address"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type PlaceOrderResponse struct {
	Message string        `json:"message"`
	Order   *OrderPayload `json:"order"`
}
