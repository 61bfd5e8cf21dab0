package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"

	cfg "github.com/loopwear/marketplace-app/backend/config"
	"github.com/loopwear/marketplace-app/backend/internal/handlers"
	"github.com/loopwear/marketplace-app/backend/internal/usecases"
	"github.com/loopwear/marketplace-app/backend/internal/usecases/repository"
	"github.com/loopwear/marketplace-app/backend/internal/workers"
	"github.com/loopwear/marketplace-app/backend/pkg/database"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server timeout constants.
const (
	readTimeoutSeconds     = 15
	writeTimeoutSeconds    = 15
	idleTimeoutSeconds     = 60
	shutdownTimeoutSeconds = 5
)

func main() {
	time.Local = time.UTC

	// Parse configuration
	config, err := cfg.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Setup logging
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if config.App.Debug {
		opts.Level = slog.LevelDebug
	}

	ctx := context.Background()

	migrationsPath := "./migrations"
	if workDir, err := os.Getwd(); err == nil {
		if _, err := os.Stat(filepath.Join(workDir, "migrations")); !os.IsNotExist(err) {
			migrationsPath = filepath.Join(workDir, "migrations")
		} else if _, err := os.Stat(filepath.Join(workDir, "..", "migrations")); !os.IsNotExist(err) {
			migrationsPath = filepath.Join(workDir, "..", "migrations")
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	logger.Warn("Starting application with configuration",
		"debug", config.App.Debug,
		"server_port", config.HTTP.Port,
		"database_url", config.DB.DatabaseURL)

	// Connect to Database
	pg, err := database.New(config,
		database.MaxPoolSize(config.DB.PoolMax),
		database.ConnTimeout(config.DB.ConnectTimeout),
		database.HealthCheckPeriod(config.DB.HealthCheckPeriod),
		database.Isolation(pgx.ReadCommitted),
	)
	if err != nil {
		slog.Error("postgres connection failed", slog.String("error", err.Error()))
		return
	}
	defer pg.Close()

	// Run database migrations
	logger.Info("Running database migrations", "path", migrationsPath)
	if err = database.RunMigrations(logger, config.DatabaseURL, migrationsPath); err != nil {
		logger.Error("Failed to run database migrations", "error", err)
		log.Fatal(err)
	}
	logger.Info("Database migrations completed successfully")

	// Create repositories
	ordersRepository := repository.NewOrdersRepository(logger, pg)
	deliveriesRepository := repository.NewDeliveriesRepository(logger, pg)
	walletsRepository := repository.NewWalletsRepository(logger, pg)
	transactionsRepository := repository.NewTransactionsRepository(logger, pg)

	// Create websocket manager first, order events flow through it
	websocketManager := handlers.NewManager(logger)

	// Create usecases
	orderService := usecases.NewOrderService(logger, ordersRepository, deliveriesRepository, transactionsRepository, pg.Transactor, websocketManager)
	deliveryService := usecases.NewDeliveryService(logger, deliveriesRepository, pg.Transactor)
	walletService := usecases.NewWalletService(logger, walletsRepository, transactionsRepository, pg.Transactor)
	transactionService := usecases.NewTransactionService(logger, transactionsRepository, pg.Transactor)

	// Initialize and run workers
	initAndRunWorkers(ctx, logger, config, orderService)

	// Create handlers
	httpHandler := handlers.NewHTTPHandler(logger, orderService, deliveryService, walletService, transactionService)
	wsHandler := handlers.NewWebSocketHandler(logger, orderService, websocketManager)

	// Create router
	router := mux.NewRouter()

	// Register WebSocket routes before HTTP routes
	wsHandler.RegisterRoutes(router)
	httpHandler.RegisterRoutes(router)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
	})

	// Wrap router in CORS middleware
	handler := c.Handler(router)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + config.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  readTimeoutSeconds * time.Second,
		WriteTimeout: writeTimeoutSeconds * time.Second,
		IdleTimeout:  idleTimeoutSeconds * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "address", server.Addr)
		if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			log.Fatal(err)
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give 5 seconds to complete current requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeoutSeconds*time.Second)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		return
	}

	logger.Info("Server exited properly")
}

func initAndRunWorkers(
	ctx context.Context,
	logger *slog.Logger,
	config *cfg.Config,
	orderService *usecases.OrderService,
) {
	// Initialize order expirer worker with configuration from config
	orderExpirer := workers.NewOrderExpirer(
		logger,
		orderService,
		time.Duration(config.Workers.OrderExpiration)*time.Minute,
		time.Duration(config.Workers.OrderCleanupInterval)*time.Minute,
	)

	// Start order expirer worker in a goroutine
	go func() {
		logger.Info("Starting order expirer worker")
		orderExpirer.Start(ctx)
	}()

	logger.Info("All workers initialized and started")
}
