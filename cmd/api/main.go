package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro/internal/config"
	"bistro/internal/handler"
	"bistro/internal/kv"
	"bistro/internal/model"
	"bistro/internal/payment"
	"bistro/internal/router"
	"bistro/internal/seed"
	"bistro/internal/service"
	"bistro/internal/store"
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
	logger.Info().Msg("starting bistro API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the key-value backend
	var backend kv.Store
	if cfg.NATS.Enabled {
		natsBackend, closeBackend, err := kv.NewNATS(ctx, cfg.NATS, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize key-value backend: %w", err)
		}
		defer closeBackend()
		backend = natsBackend
	} else {
		logger.Warn().Msg("NATS disabled, using in-process key-value store; data will not survive restarts")
		backend = kv.NewMemory()
	}

	// Initialize stores
	menuStore := store.New[model.MenuItem](store.Definition{
		Name:      "menuItem",
		IndexName: "menuItems",
	}, backend, logger)
	orderStore := store.New[model.Order](store.Definition{
		Name:      "order",
		IndexName: "orders",
	}, backend, logger)

	// Resolve the menu seed set: configured file (S3 first when enabled,
	// local fallback), otherwise the built-in defaults.
	seedItems := seed.DefaultMenuItems()
	if cfg.Seed.FilePath != "" {
		fileLoader := seed.NewFileLoader(logger)
		var s3Loader seed.Loader

		if cfg.Seed.S3Enabled {
			s3Loader, err = seed.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 seed loader, falling back to local file system only")
				s3Loader = nil
			}
		}

		loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Prefix, cfg.Seed.S3Enabled, logger)
		loaded, err := loader.Load(ctx, cfg.Seed.FilePath)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("file", cfg.Seed.FilePath).
				Msg("failed to load seed file, using built-in defaults")
		} else {
			seedItems = loaded
		}
	}

	// Initialize the payment gateway client
	if !cfg.Payment.Enabled {
		logger.Warn().Msg("payment gateway not configured; checkout requests will fail")
	}
	gateway := payment.NewClient(cfg.Payment, logger)

	// Initialize services
	menuService := service.NewMenuService(menuStore, seedItems, logger)
	orderService := service.NewOrderService(orderStore, logger)
	paymentService := service.NewPaymentService(gateway, orderService, backend, logger)

	// Initialize HTTP handlers
	menuHandler := handler.NewMenuHandler(menuService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.Payment.WebhookSecret, logger)

	// Initialize router
	mux := router.New(menuHandler, orderHandler, paymentHandler, cfg.Auth.AdminAPIKey, logger)

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
