// Package checkout drives the client side of one checkout attempt:
// collect delivery details, create a payment intent for the cart,
// confirm the payment, then ask the server to place the order.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/service"

	"shop-checkout-service/pkg/money"
)

type State string

const (
	StateCollectingDetails     State = "CollectingDetails"
	StateCreatingIntent        State = "CreatingIntent"
	StateAwaitingPaymentMethod State = "AwaitingPaymentMethod"
	StateConfirmingPayment     State = "ConfirmingPayment"
	StatePlacingOrder          State = "PlacingOrder"
	StateCompleted             State = "Completed"
	StateFailed                State = "Failed"
)

// confirmRetries bounds automatic re-confirms after a gateway outage.
// Declines are never auto-retried.
const confirmRetries = 2

type Details struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

func (d Details) validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"email", d.Email},
		{"phone", d.Phone},
		{"address", d.Address},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperr.ErrMalformedRequest.WithMessage("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

type CartReader interface {
	Snapshot(ctx context.Context, userID string) (*service.CartView, error)
}

type Gateway interface {
	CreateIntent(ctx context.Context, userID string, amount money.Money, currency string) (*model.PaymentIntent, error)
	ConfirmIntent(ctx context.Context, userID, intentID, paymentMethod string) (*model.PaymentIntent, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, userID string, lines []service.RequestedLine, address string, claimedTotal money.Money) (*service.OrderView, error)
}

// Orchestrator is one checkout attempt. Not safe for concurrent use;
// a client drives it step by step and may abandon it at any state.
type Orchestrator struct {
	userID  string
	cart    CartReader
	gateway Gateway
	placer  OrderPlacer

	state   State
	details Details
	// snapshot captured when the intent was created; the placement
	// request is built from it, never from a fresher read.
	snapshot *service.CartView
	subtotal money.Money
	intent   *model.PaymentIntent
	order    *service.OrderView
	failure  error
}

func New(userID string, cart CartReader, gateway Gateway, placer OrderPlacer) *Orchestrator {
	return &Orchestrator{
		userID:  userID,
		cart:    cart,
		gateway: gateway,
		placer:  placer,
		state:   StateCollectingDetails,
	}
}

func (o *Orchestrator) State() State {
	return o.state
}

// FailureReason is non-nil once the attempt reached Failed.
func (o *Orchestrator) FailureReason() error {
	return o.failure
}

func (o *Orchestrator) Order() *service.OrderView {
	return o.order
}

func (o *Orchestrator) Intent() *model.PaymentIntent {
	return o.intent
}

// SubmitDetails validates delivery details. On a validation error the
// orchestrator stays in CollectingDetails.
func (o *Orchestrator) SubmitDetails(details Details) error {
	if o.state != StateCollectingDetails {
		return fmt.Errorf("submit details in state %s", o.state)
	}
	if err := details.validate(); err != nil {
		return err
	}
	o.details = details
	o.state = StateCreatingIntent
	return nil
}

// CreateIntent snapshots the cart, computes the subtotal from current
// catalog prices and requests a payment intent for it.
func (o *Orchestrator) CreateIntent(ctx context.Context) error {
	if o.state != StateCreatingIntent {
		return fmt.Errorf("create intent in state %s", o.state)
	}

	snapshot, err := o.cart.Snapshot(ctx, o.userID)
	if err != nil {
		return o.fail(fmt.Errorf("read cart: %w", err))
	}
	if len(snapshot.Items) == 0 {
		return apperr.ErrMalformedRequest.WithMessage("cart is empty")
	}

	subtotal := money.Zero()
	currency := "USD"
	for _, item := range snapshot.Items {
		subtotal = subtotal.Add(money.FromMinorUnits(item.Product.Price).MulInt(item.Quantity))
		currency = item.Product.Currency
	}

	intent, err := o.gateway.CreateIntent(ctx, o.userID, subtotal, currency)
	if err != nil {
		return o.fail(fmt.Errorf("create payment intent: %w", err))
	}

	o.snapshot = snapshot
	o.subtotal = subtotal
	o.intent = intent
	o.state = StateAwaitingPaymentMethod
	return nil
}

// SubmitPaymentMethod confirms the intent with the gateway. A decline
// fails the attempt (the cart and intent are untouched; Retry allows a
// new method); a gateway outage is retried a bounded number of times.
func (o *Orchestrator) SubmitPaymentMethod(ctx context.Context, paymentMethod string) error {
	if o.state != StateAwaitingPaymentMethod {
		return fmt.Errorf("submit payment method in state %s", o.state)
	}
	o.state = StateConfirmingPayment

	var intent *model.PaymentIntent
	var err error
	for attempt := 0; attempt <= confirmRetries; attempt++ {
		intent, err = o.gateway.ConfirmIntent(ctx, o.userID, o.intent.ExternalID, paymentMethod)
		if err == nil || !apperr.Is(err, apperr.ErrGatewayUnavailable) {
			break
		}
	}
	if err != nil {
		return o.fail(err)
	}

	if intent.Status != model.IntentStatusSucceeded {
		return o.fail(apperr.ErrPaymentNotConfirmed)
	}

	o.intent = intent
	o.state = StatePlacingOrder
	return nil
}

// PlaceOrder sends the placement request built from the snapshot that
// priced the intent. A server rejection fails the attempt; the captured
// payment is not reversed here (see the reconcile sweep).
func (o *Orchestrator) PlaceOrder(ctx context.Context) error {
	if o.state != StatePlacingOrder {
		return fmt.Errorf("place order in state %s", o.state)
	}

	lines := make([]service.RequestedLine, len(o.snapshot.Items))
	for i, item := range o.snapshot.Items {
		lines[i] = service.RequestedLine{ProductID: item.Product.ID, Quantity: item.Quantity}
	}

	order, err := o.placer.PlaceOrder(ctx, o.userID, lines, o.details.Address, o.subtotal)
	if err != nil {
		return o.fail(err)
	}

	o.order = order
	o.state = StateCompleted
	return nil
}

// Retry returns a declined or failed attempt to AwaitingPaymentMethod so
// the user can try another payment method against the same open intent.
func (o *Orchestrator) Retry() error {
	if o.state != StateFailed {
		return fmt.Errorf("retry in state %s", o.state)
	}
	if o.intent == nil || o.intent.Status == model.IntentStatusSucceeded {
		return fmt.Errorf("attempt is not retryable")
	}
	o.failure = nil
	o.state = StateAwaitingPaymentMethod
	return nil
}

func (o *Orchestrator) fail(reason error) error {
	o.failure = reason
	o.state = StateFailed
	return reason
}
