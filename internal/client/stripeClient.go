package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/config"
)

// StripeClient talks to the payment gateway. Amounts are integer minor
// currency units on the wire.
type StripeClient interface {
	CreateIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (*Intent, error)
	ConfirmIntent(ctx context.Context, intentID, paymentMethod string) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
}

type Intent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

type stripeError struct {
	Error struct {
		Type        string `json:"type"`
		Code        string `json:"code"`
		Message     string `json:"message"`
		DeclineCode string `json:"decline_code"`
	} `json:"error"`
}

type stripeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: stripeCfg.BaseApiURL,
		secretKey:  stripeCfg.SecretKey,
	}
}

func (c *stripeClientImpl) CreateIntent(ctx context.Context, amount int64, currency, idempotencyKey string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")

	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	return c.doIntentRequest(ctx, http.MethodPost, "/v1/payment_intents", form, headers)
}

func (c *stripeClientImpl) ConfirmIntent(ctx context.Context, intentID, paymentMethod string) (*Intent, error) {
	form := url.Values{}
	form.Set("payment_method", paymentMethod)

	path := fmt.Sprintf("/v1/payment_intents/%s/confirm", intentID)
	return c.doIntentRequest(ctx, http.MethodPost, path, form, nil)
}

func (c *stripeClientImpl) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	path := fmt.Sprintf("/v1/payment_intents/%s", intentID)
	return c.doIntentRequest(ctx, http.MethodGet, path, nil, nil)
}

func (c *stripeClientImpl) doIntentRequest(ctx context.Context, method, path string, form url.Values, headers map[string]string) (*Intent, error) {
	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.ErrGatewayUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, apperr.ErrGatewayUnavailable.WithCause(
			fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(body)))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var gwErr stripeError
		if err := json.Unmarshal(body, &gwErr); err == nil && gwErr.Error.Type == "card_error" {
			return nil, apperr.ErrPaymentDeclined.WithCause(
				fmt.Errorf("decline code %s: %s", gwErr.Error.DeclineCode, gwErr.Error.Message))
		}
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(body))
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &intent, nil
}
