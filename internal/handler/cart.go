package handler

import (
	"net/http"

	"shop-checkout-service/internal/dto"
	"shop-checkout-service/internal/middleware"
	"shop-checkout-service/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	view, err := h.cartService.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cartPayload(view))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req dto.RemoveCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	view, err := h.cartService.RemoveItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cartPayload(view))
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	view, err := h.cartService.Snapshot(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cartPayload(view))
}
