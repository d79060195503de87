package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnkitRegmi1/TruSwap/internal/app"
	"github.com/AnkitRegmi1/TruSwap/internal/auth"
	"github.com/AnkitRegmi1/TruSwap/internal/clock"
	"github.com/AnkitRegmi1/TruSwap/internal/config"
	"github.com/AnkitRegmi1/TruSwap/internal/paypal"
	"github.com/AnkitRegmi1/TruSwap/internal/storage/postgres"
	transporthttp "github.com/AnkitRegmi1/TruSwap/internal/transport/http"
	"github.com/AnkitRegmi1/TruSwap/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.JWTSecret == "" {
		logger.Printf("WARN: JWT_SECRET not set, authenticated endpoints will reject all tokens")
	}
	if cfg.PayPalClientID == "" || cfg.PayPalClientSecret == "" {
		logger.Printf("WARN: PayPal credentials not set, payment endpoints will fail")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	clk := clock.NewSystem()
	gateway := paypal.NewClient(cfg.PayPalClientID, cfg.PayPalClientSecret, cfg.PayPalMode, cfg.GatewayTimeout)
	authenticator := auth.NewJWTAuthenticator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	listingRepo := postgres.NewListingRepository(pool)
	listingSvc := app.NewListingService(listingRepo, clk)
	groupSvc := app.NewGroupService(postgres.NewGroupRepository(pool), clk)
	orderSvc := app.NewOrderService(postgres.NewOrderRepository(pool), listingRepo)
	paymentSvc := app.NewPaymentService(
		postgres.NewPaymentRepository(pool),
		postgres.NewIntentRepository(pool),
		gateway,
		clk,
		logger,
	)

	handler := transporthttp.NewRouter(transporthttp.Services{
		Listings: listingSvc,
		Groups:   groupSvc,
		Orders:   orderSvc,
		Payments: paymentSvc,
	}, authenticator, cfg.CORSOrigins, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
