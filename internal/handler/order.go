package handler

import (
	"net/http"

	"shop-checkout-service/internal/dto"
	"shop-checkout-service/internal/middleware"
	"shop-checkout-service/internal/service"

	"shop-checkout-service/pkg/money"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req dto.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	claimedTotal, err := money.FromString(req.TotalAmount.String())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid totalAmount")
	}

	lines := make([]service.RequestedLine, len(req.Products))
	for i, p := range req.Products {
		lines[i] = service.RequestedLine{ProductID: p.ProductID, Quantity: p.Quantity}
	}

	view, err := h.orderService.PlaceOrder(ctx, userID, lines, req.Address, claimedTotal)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.PlaceOrderResponse{
		Message: "Order placed successfully",
		Order:   orderPayload(view),
	})
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	views, err := h.orderService.ListOrders(ctx, userID)
	if err != nil {
		return err
	}

	orders := make([]*dto.OrderPayload, len(views))
	for i, view := range views {
		orders[i] = orderPayload(view)
	}

	return c.JSON(http.StatusOK, orders)
}
