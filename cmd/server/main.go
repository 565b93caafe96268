package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/snuggle-shop/snuggle/internal"
	"github.com/snuggle-shop/snuggle/internal/billing"
	"github.com/snuggle-shop/snuggle/internal/bootstrap"
	"github.com/snuggle-shop/snuggle/internal/email"
	"github.com/snuggle-shop/snuggle/internal/handler/api"
	"github.com/snuggle-shop/snuggle/internal/jobs"
	"github.com/snuggle-shop/snuggle/internal/middleware"
	"github.com/snuggle-shop/snuggle/internal/repository"
	"github.com/snuggle-shop/snuggle/internal/service"
	"github.com/snuggle-shop/snuggle/internal/shipping"
	"github.com/snuggle-shop/snuggle/internal/tax"
	"github.com/snuggle-shop/snuggle/internal/telemetry"
	"github.com/snuggle-shop/snuggle/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Repository
	store := repository.NewStore(pool)

	// Seed the initial admin account
	if err := bootstrap.EnsureAdmin(ctx, store, bootstrap.AdminConfig{
		Email: cfg.Admin.Email,
		Name:  cfg.Admin.Name,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Pricing calculators
	shippingCalc := shipping.NewThresholdCalculator(
		cfg.Pricing.FreeShippingThreshold,
		cfg.Pricing.FlatShippingRate,
		store,
	)

	var taxCalc tax.Calculator
	switch cfg.Pricing.TaxProvider {
	case "none":
		taxCalc = tax.NoTaxCalculator{}
	default:
		taxCalc = tax.NewPercentageCalculator(cfg.Pricing.TaxRate)
	}

	// Services
	couponService := service.NewCouponService(store, cfg.Pricing.CouponUsageLimit)
	cartService := service.NewCartService(store, couponService, shippingCalc, taxCalc)
	checkoutService := service.NewCheckoutService(
		store,
		couponService,
		shippingCalc,
		taxCalc,
		service.PricingMode(cfg.Pricing.CheckoutPricing),
		logger,
	)
	orderService := service.NewOrderService(store, cfg.Pricing.OrderTransitions == "strict")
	productService := service.NewProductService(store)

	// Billing provider
	billingProvider := billing.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// Email service
	var sender email.Sender
	if cfg.Env == "prod" {
		sender = email.NewSMTPSender(&email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		}, logger)
	} else {
		sender = email.NewMockSender()
		logger.Info("Using mock email sender")
	}

	emailService, err := email.NewService(sender, cfg.Email.From, cfg.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Background job worker
	jobWorker := worker.New(store, emailService, worker.Config{
		PollInterval:   time.Duration(cfg.Worker.PollSeconds) * time.Second,
		MaxConcurrency: cfg.Worker.MaxConcurrency,
		Queue:          cfg.Worker.Queue,
	}, logger)

	go func() {
		if err := jobWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", "error", err)
		}
	}()

	// Enqueue a daily purge of completed jobs.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			if err := jobs.EnqueueCleanupCompletedJobs(ctx, store, 0); err != nil {
				logger.Error("failed to enqueue cleanup job", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	// HTTP router
	metrics := middleware.NewMetrics("snuggle")
	business := telemetry.NewBusinessMetrics("snuggle")
	r := api.NewRouter(api.Deps{
		Logger:   logger,
		Metrics:  metrics,
		Business: business,
		Repo:     store,
		DB:       pool,
		Products: productService,
		Cart:     cartService,
		Coupons:  couponService,
		Checkout: checkoutService,
		Orders:   orderService,
		Billing:  billingProvider,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
