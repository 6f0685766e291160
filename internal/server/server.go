package server

import (
	"context"
	"net/http"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/config"
	"shop-checkout-service/internal/handler"
	authmw "shop-checkout-service/internal/middleware"
	"shop-checkout-service/internal/repository"
	"shop-checkout-service/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	paymentHandler *handler.PaymentHandler
	orderHandler   *handler.OrderHandler
	jwtCfg         *config.JWT
}

func NewServer(
	jwtCfg *config.JWT,
	userService service.UserService,
	cartService service.CartService,
	paymentService service.PaymentService,
	orderService service.OrderService,
	productRepo repository.ProductRepository,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.HTTPErrorHandler = errorHandler

	s := &Server{
		echo:           e,
		userHandler:    handler.NewUserHandler(userService),
		productHandler: handler.NewProductHandler(productRepo),
		cartHandler:    handler.NewCartHandler(cartService),
		paymentHandler: handler.NewPaymentHandler(paymentService),
		orderHandler:   handler.NewOrderHandler(orderService),
		jwtCfg:         jwtCfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/user/signup", s.userHandler.SignUp)
	api.POST("/user/signin", s.userHandler.SignIn)

	api.GET("/products", s.productHandler.ListProducts)
	api.GET("/products/:id", s.productHandler.GetProduct)

	// everything below requires a bearer credential
	auth := authmw.AuthMiddleware(s.jwtCfg)

	cart := api.Group("/cart", auth)
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.DELETE("/items", s.cartHandler.RemoveItem)

	payment := api.Group("/payment", auth)
	payment.POST("/create-payment-intent", s.paymentHandler.CreatePaymentIntent)
	payment.POST("/handle-payment", s.paymentHandler.HandlePayment)

	orders := api.Group("/orders", auth)
	orders.POST("", s.orderHandler.PlaceOrder)
	orders.GET("", s.orderHandler.GetOrders)
}

// errorHandler maps the error taxonomy onto HTTP responses so every
// failure yields one human-readable message.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if appErr, ok := apperr.As(err); ok {
		_ = c.JSON(appErr.Status, map[string]string{
			"error":   appErr.Code,
			"message": appErr.Message,
		})
		return
	}

	if httpErr, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(httpErr.Code, map[string]any{
			"error":   http.StatusText(httpErr.Code),
			"message": httpErr.Message,
		})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, map[string]string{
		"error":   "InternalError",
		"message": "something went wrong; try again",
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
