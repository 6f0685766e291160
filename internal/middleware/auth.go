package middleware

import (
	"strings"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/config"
	"shop-checkout-service/internal/service"

	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// AuthMiddleware resolves the bearer token to a user identity. Missing,
// malformed or expired tokens all surface as Unauthenticated.
func AuthMiddleware(jwtCfg *config.JWT) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return apperr.ErrUnauthenticated
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				return apperr.ErrUnauthenticated
			}

			claims, err := service.ParseToken(jwtCfg, token)
			if err != nil || claims.UserID == "" {
				return apperr.ErrUnauthenticated.WithCause(err)
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserID reads the authenticated user set by AuthMiddleware.
func UserID(c echo.Context) string {
	userID, _ := c.Get(userIDKey).(string)
	return userID
}
