package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Class groups errors by what the client should do about them.
type Class string

const (
	ClassValidation     Class = "validation"
	ClassAuthentication Class = "authentication"
	ClassConsistency    Class = "consistency"
	ClassPayment        Class = "payment"
	ClassPersistence    Class = "persistence"
)

type Error struct {
	Class   Class
	Code    string
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error without changing what the
// client sees.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.cause = cause
	return &clone
}

func (e *Error) WithMessage(msg string) *Error {
	clone := *e
	clone.Message = msg
	return &clone
}

func New(class Class, code string, status int, message string) *Error {
	return &Error{Class: class, Code: code, Status: status, Message: message}
}

var (
	ErrMalformedRequest = New(ClassValidation, "MalformedRequest", http.StatusBadRequest, "request body is malformed")
	ErrInvalidProduct   = New(ClassValidation, "InvalidProduct", http.StatusBadRequest, "product does not exist")
	ErrItemNotFound     = New(ClassValidation, "ItemNotFound", http.StatusNotFound, "item not in cart")
	ErrInvalidAmount    = New(ClassValidation, "InvalidAmount", http.StatusBadRequest, "amount must be a positive number of minor currency units")

	ErrUnauthenticated = New(ClassAuthentication, "Unauthenticated", http.StatusUnauthorized, "missing or invalid credentials")

	ErrCartMismatch   = New(ClassConsistency, "CartMismatch", http.StatusBadRequest, "requested items do not match the current cart; refresh and retry")
	ErrAmountMismatch = New(ClassConsistency, "AmountMismatch", http.StatusBadRequest, "claimed total does not match the server total; refresh and retry")
	ErrCartConflict   = New(ClassConsistency, "CartConflict", http.StatusConflict, "cart was modified concurrently; retry")

	ErrPaymentDeclined     = New(ClassPayment, "PaymentDeclined", http.StatusBadRequest, "payment was declined; try another payment method")
	ErrGatewayUnavailable  = New(ClassPayment, "GatewayUnavailable", http.StatusBadGateway, "payment gateway unavailable; try again")
	ErrPaymentNotConfirmed = New(ClassPayment, "PaymentNotConfirmed", http.StatusBadRequest, "payment has not been confirmed")

	ErrPersistence = New(ClassPersistence, "PersistenceError", http.StatusServiceUnavailable, "store unavailable; try again")
)

// As unwraps err to an *Error if one is in the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries target's code.
func Is(err error, target *Error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == target.Code
}
