package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gofresh/internal/auth"
	"gofresh/internal/cart"
	"gofresh/internal/catalog"
	"gofresh/internal/config"
	"gofresh/internal/events"
	"gofresh/internal/handler"
	"gofresh/internal/locale"
	"gofresh/internal/metrics"
	"gofresh/internal/order"
	"gofresh/internal/router"
	"gofresh/internal/scheduler"
	"gofresh/internal/service"
	"gofresh/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting gofresh API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize the key-value store
	st, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer closeStore()

	// Load the product catalogue
	products, err := catalog.Load(ctx, cfg.Catalog.Files, newCatalogLoader(ctx, cfg, logger), logger)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// Start the timer scheduler
	sched := scheduler.NewCronScheduler(logger)
	sched.Start()
	defer sched.Stop()

	// Initialize the order event publisher
	publisher := events.New(cfg.Events, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Restore session state
	prefs := locale.NewPreferences(st, m, logger)
	prefs.Load(ctx)

	authService := auth.NewService(st, sched, cfg.Simulation, m, logger)
	authService.Load(ctx)

	ledger := cart.NewLedger(st, m, logger)
	ledger.Load(ctx)

	lifecycle := order.NewLifecycle(
		st,
		sched,
		order.UUIDGenerator{},
		order.DefaultProfiles().Scaled(cfg.Lifecycle.TimeScale),
		publisher,
		m,
		logger,
		order.WithLanguage(prefs.Get),
	)
	lifecycle.Load(ctx)

	// Initialize services
	catalogService := service.NewCatalogService(products, sched, logger)
	checkoutService := service.NewCheckoutService(ledger, lifecycle, authService, sched, cfg.Simulation.PaymentDelay, logger)
	notificationService := service.NewNotificationService(lifecycle, authService, prefs, st, m, logger)
	notificationService.Load(ctx)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Product:    handler.NewProductHandler(catalogService, logger),
		Cart:       handler.NewCartHandler(ledger, catalogService, logger),
		Checkout:   handler.NewCheckoutHandler(checkoutService, logger),
		Order:      handler.NewOrderHandler(lifecycle, authService, logger),
		Auth:       handler.NewAuthHandler(authService, logger),
		Preference: handler.NewPreferenceHandler(prefs, notificationService, logger),
	}, m, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Int("products", products.Size()).
			Str("store", cfg.Store.Driver).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCatalogLoader reads catalogue files from S3 when enabled, falling back
// to the local file system.
func newCatalogLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) catalog.Loader {
	fileLoader := catalog.NewFileLoader(logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for catalog files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
}
