package handler

import (
	"net/http"

	"shop-checkout-service/internal/dto"
	"shop-checkout-service/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, token, err := h.userService.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.AuthResponse{
		Token: token,
		User:  userPayload(user),
	})
}

func (h *UserHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, token, err := h.userService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &dto.AuthResponse{
		Token: token,
		User:  userPayload(user),
	})
}
