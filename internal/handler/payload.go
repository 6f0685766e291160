package handler

import (
	"shop-checkout-service/internal/dto"
	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/service"

	"shop-checkout-service/pkg/money"
)

func productPayload(p *model.Product) *dto.ProductPayload {
	return &dto.ProductPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money.FromMinorUnits(p.Price).String(),
		Currency:    p.Currency,
	}
}

func cartPayload(view *service.CartView) *dto.CartResponse {
	items := make([]*dto.CartItemPayload, len(view.Items))
	for i, line := range view.Items {
		items[i] = &dto.CartItemPayload{
			Product:  productPayload(line.Product),
			Quantity: line.Quantity,
		}
	}
	return &dto.CartResponse{Items: items}
}

func orderPayload(view *service.OrderView) *dto.OrderPayload {
	items := make([]*dto.OrderItemPayload, len(view.Items))
	for i, item := range view.Items {
		items[i] = &dto.OrderItemPayload{
			Product: &dto.ProductPayload{
				ID:       item.ProductID,
				Name:     item.ProductName,
				Price:    money.FromMinorUnits(item.UnitPrice).String(),
				Currency: item.Currency,
			},
			Quantity:  item.Quantity,
			UnitPrice: money.FromMinorUnits(item.UnitPrice).String(),
		}
	}

	return &dto.OrderPayload{
		ID:          view.Order.ID,
		Items:       items,
		TotalAmount: money.FromMinorUnits(view.Order.TotalAmount).String(),
		Currency:    view.Order.Currency,
		Address:     view.Order.DeliveryAddress,
		Status:      view.Order.Status,
		CreatedAt:   view.Order.CreatedAt,
	}
}

func userPayload(u *model.User) *dto.UserPayload {
	return &dto.UserPayload{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
