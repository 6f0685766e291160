package handler

import (
	"net/http"

	"shop-checkout-service/internal/dto"
	"shop-checkout-service/internal/middleware"
	"shop-checkout-service/internal/service"

	"shop-checkout-service/pkg/money"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req dto.CreateIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	intent, err := h.paymentService.CreateIntent(ctx, userID, money.FromMinorUnits(req.Amount), currency)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.CreateIntentResponse{
		ClientSecret: intent.ClientSecret,
	})
}

func (h *PaymentHandler) HandlePayment(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req dto.HandlePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.PaymentIntentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing paymentIntentId")
	}

	intent, err := h.paymentService.HandlePayment(ctx, userID, req.PaymentIntentID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.HandlePaymentResponse{
		Success: true,
		Message: "Payment successful",
		PaymentDetails: &dto.PaymentDetails{
			ID:       intent.ExternalID,
			Amount:   intent.Amount,
			Currency: intent.Currency,
			Status:   intent.Status,
		},
	})
}
