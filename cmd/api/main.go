package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteen/internal/cardvault"
	"canteen/internal/config"
	"canteen/internal/database"
	"canteen/internal/handler"
	"canteen/internal/repository"
	"canteen/internal/router"
	"canteen/internal/service"
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
	logger.Info().Msg("starting canteen API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Apply schema and seed reference data
	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := database.Seed(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Initialize the card vault with its persistent key
	cardKey, err := cardvault.LoadOrCreateKey(cfg.Card.KeyFile, logger)
	if err != nil {
		return fmt.Errorf("failed to load card key: %w", err)
	}
	vault, err := cardvault.New(cardKey, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize card vault: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	inventoryRepo := repository.NewInventoryRepository(pool, logger)
	accountRepo := repository.NewAccountRepository(pool, logger)
	mealRepo := repository.NewMealRepository(pool, logger)
	requisitionRepo := repository.NewRequisitionRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, accountRepo, cfg.Auth.JWTSecret, logger)
	menuService := service.NewMenuService(catalogRepo, accountRepo, mealRepo, logger)
	mealService := service.NewMealService(mealRepo, catalogRepo, inventoryRepo, accountRepo, userRepo, notificationRepo, logger)
	preparationService := service.NewPreparationService(catalogRepo, inventoryRepo, mealRepo, logger)
	subscriptionService := service.NewSubscriptionService(accountRepo, notificationRepo, logger)
	accountService := service.NewAccountService(accountRepo, vault, logger)
	requisitionService := service.NewRequisitionService(requisitionRepo, inventoryRepo, userRepo, notificationRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	reviewService := service.NewReviewService(reviewRepo, catalogRepo, userRepo, notificationRepo, logger)
	reportService := service.NewReportService(accountRepo, mealRepo, userRepo, logger)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	menuHandler := handler.NewMenuHandler(menuService, logger)
	mealHandler := handler.NewMealHandler(mealService, logger)
	accountHandler := handler.NewAccountHandler(accountService, subscriptionService, logger)
	kitchenHandler := handler.NewKitchenHandler(preparationService, requisitionService, logger)
	adminHandler := handler.NewAdminHandler(reportService, requisitionService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)

	// Initialize router
	mux := router.New(
		authHandler,
		menuHandler,
		mealHandler,
		accountHandler,
		kitchenHandler,
		adminHandler,
		notificationHandler,
		reviewHandler,
		cfg.Auth.JWTSecret,
		logger,
	)

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
