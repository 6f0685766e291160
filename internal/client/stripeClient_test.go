package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (StripeClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewStripeClient(&config.Stripe{
		BaseApiURL: srv.URL,
		SecretKey:  "sk_test_123",
	})
	return c, srv
}

func TestCreateIntent(t *testing.T) {
	var gotAuth, gotIdemKey, gotAmount string

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdemKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, r.ParseForm())
		gotAmount = r.PostForm.Get("amount")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","amount":2500,"currency":"usd","status":"requires_payment_method","client_secret":"pi_123_secret"}`))
	})
	defer srv.Close()

	intent, err := c.CreateIntent(context.Background(), 2500, "USD", "fp-abc")
	require.NoError(t, err)

	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, int64(2500), intent.Amount)
	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "fp-abc", gotIdemKey)
	assert.Equal(t, "2500", gotAmount)
}

func TestConfirmIntent_Decline(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payment_intents/pi_123/confirm", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","decline_code":"insufficient_funds","message":"Your card has insufficient funds."}}`))
	})
	defer srv.Close()

	_, err := c.ConfirmIntent(context.Background(), "pi_123", "pm_card_declined")
	assert.True(t, apperr.Is(err, apperr.ErrPaymentDeclined))
}

func TestRetrieveIntent(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","amount":2500,"currency":"usd","status":"succeeded"}`))
	})
	defer srv.Close()

	intent, err := c.RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", intent.Status)
}

func TestServerErrorIsGatewayUnavailable(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := c.RetrieveIntent(context.Background(), "pi_123")
	assert.True(t, apperr.Is(err, apperr.ErrGatewayUnavailable))
}

func TestNetworkErrorIsGatewayUnavailable(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // refuse connections

	_, err := c.RetrieveIntent(context.Background(), "pi_123")
	assert.True(t, apperr.Is(err, apperr.ErrGatewayUnavailable))
}
