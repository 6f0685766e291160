package handler

import (
	"errors"
	"net/http"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/dto"
	"shop-checkout-service/internal/repository"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type ProductHandler struct {
	productRepo repository.ProductRepository
}

func NewProductHandler(productRepo repository.ProductRepository) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productRepo.List(ctx)
	if err != nil {
		return err
	}

	payloads := make([]*dto.ProductPayload, len(products))
	for i, p := range products {
		payloads[i] = productPayload(p)
	}

	return c.JSON(http.StatusOK, payloads)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.productRepo.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrInvalidProduct
		}
		return err
	}

	return c.JSON(http.StatusOK, productPayload(product))
}
