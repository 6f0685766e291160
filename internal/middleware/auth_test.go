package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/config"
	"shop-checkout-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, userID string, expiresIn time.Duration) string {
	t.Helper()

	claims := service.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func callWithAuth(t *testing.T, authHeader string) (string, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var gotUserID string
	h := AuthMiddleware(&config.JWT{Secret: "test-secret"})(func(c echo.Context) error {
		gotUserID = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	err := h(c)
	return gotUserID, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, "test-secret", "user-1", time.Hour)

	userID, err := callWithAuth(t, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", "user-1", time.Hour)},
		{"expired", "Bearer " + signToken(t, "test-secret", "user-1", -time.Hour)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := callWithAuth(t, tc.header)
			assert.True(t, apperr.Is(err, apperr.ErrUnauthenticated))
		})
	}
}
