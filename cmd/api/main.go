package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-checkout-service/internal/client"
	"shop-checkout-service/internal/config"
	"shop-checkout-service/internal/reconcile"
	"shop-checkout-service/internal/repository"
	"shop-checkout-service/internal/server"
	"shop-checkout-service/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitDBClient(cfg.DatabaseURL)
	stripeClient := client.NewStripeClient(&cfg.Stripe)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	intentRepo := repository.NewIntentRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	if err := productRepo.Seed(context.Background()); err != nil {
		log.Fatal("seed products:", err)
	}

	userService := service.NewUserService(userRepo, &cfg.JWT)
	cartService := service.NewCartService(db, cartRepo, productRepo)
	paymentService := service.NewPaymentService(db, stripeClient, intentRepo, cartRepo)
	orderService := service.NewOrderService(db, cartService, paymentService, cartRepo, orderRepo)

	sweeper := reconcile.NewSweeper(
		intentRepo,
		time.Duration(cfg.Reconcile.IntervalSeconds)*time.Second,
		time.Duration(cfg.Reconcile.AgeThresholdSeconds)*time.Second,
	)
	sweeper.Start()

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(&cfg.JWT, userService, cartService, paymentService, orderService, productRepo)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	sweeper.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
