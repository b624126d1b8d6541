// Command storefront-server starts the storefront HTTP API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nstepa/storefront/internal/config"
	"github.com/nstepa/storefront/internal/credentials"
	"github.com/nstepa/storefront/internal/limiter"
	"github.com/nstepa/storefront/internal/mail"
	"github.com/nstepa/storefront/internal/migrate"
	"github.com/nstepa/storefront/internal/payment"
	"github.com/nstepa/storefront/internal/repository/postgres"
	"github.com/nstepa/storefront/internal/server/httpapi"
	"github.com/nstepa/storefront/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	if cfg.SessionSecret == "" {
		logger.Fatal("missing session signing key (--session-secret / SESSION_SECRET)")
	}
	if cfg.GatewaySecret == "" {
		logger.Fatal("missing payment gateway secret (--gateway-secret / GATEWAY_SECRET)")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	productRepo := postgres.NewProductRepo(db)
	cartRepo := postgres.NewCartRepo(db)
	orderRepo := postgres.NewOrderRepo(db)

	lim := limiter.NewPG(pool, cfg.SigninWindow, cfg.SigninMaxFails, cfg.SigninBlockFor)

	// External collaborators
	creds := credentials.NewService([]byte(cfg.SessionSecret))
	gateway := payment.NewClient(cfg.GatewayURL, cfg.GatewaySecret, cfg.GatewayTimeout)
	mailer := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	// Services
	authSvc := service.NewAuthService(userRepo, creds, lim, mailer, cfg.AppURL, logger)
	productSvc := service.NewProductService(productRepo)
	cartSvc := service.NewCartService(cartRepo)
	checkoutSvc := service.NewCheckoutService(cartRepo, orderRepo, gateway, cfg.GatewayCurrency, logger)
	orderSvc := service.NewOrderService(orderRepo)

	api := httpapi.New(authSvc, productSvc, cartSvc, checkoutSvc, orderSvc, creds, userRepo, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
