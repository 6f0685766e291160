// Drives one full checkout attempt against the real services and a live
// gateway sandbox: cart -> intent -> confirm -> order. Useful for
// smoke-testing a Stripe test key end to end.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"shop-checkout-service/internal/checkout"
	"shop-checkout-service/internal/client"
	"shop-checkout-service/internal/config"
	"shop-checkout-service/internal/repository"
	"shop-checkout-service/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitDBClient("checkout-demo.db")
	stripeClient := client.NewStripeClient(&cfg.Stripe)

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	intentRepo := repository.NewIntentRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	ctx := context.Background()
	if err := productRepo.Seed(ctx); err != nil {
		log.Fatal("seed products:", err)
	}

	cartService := service.NewCartService(db, cartRepo, productRepo)
	paymentService := service.NewPaymentService(db, stripeClient, intentRepo, cartRepo)
	orderService := service.NewOrderService(db, cartService, paymentService, cartRepo, orderRepo)

	const userID = "demo-user-001"

	if _, err := cartService.AddItem(ctx, userID, "sneaker_classic", 1); err != nil {
		log.Fatal("add to cart:", err)
	}
	if _, err := cartService.AddItem(ctx, userID, "tee_logo", 2); err != nil {
		log.Fatal("add to cart:", err)
	}

	o := checkout.New(userID, cartService, paymentService, orderService)
	log.Println("state:", o.State())

	err := o.SubmitDetails(checkout.Details{
		FirstName: "Demo",
		LastName:  "Shopper",
		Email:     "demo@example.com",
		Phone:     "555-0100",
		Address:   "1 Demo Street",
	})
	if err != nil {
		log.Fatal("submit details:", err)
	}
	log.Println("state:", o.State())

	if err := o.CreateIntent(ctx); err != nil {
		log.Fatal("create intent:", err)
	}
	log.Println("state:", o.State(), "intent:", o.Intent().ExternalID)

	// Stripe sandbox test payment method
	if err := o.SubmitPaymentMethod(ctx, "pm_card_visa"); err != nil {
		log.Fatal("confirm payment:", err)
	}
	log.Println("state:", o.State())

	if err := o.PlaceOrder(ctx); err != nil {
		log.Fatal("place order:", err)
	}
	log.Println("state:", o.State(), "order:", o.Order().Order.ID)
}
