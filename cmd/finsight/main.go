package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/finsight-event-ledger/internal/aggregation"
	"github.com/finsight-event-ledger/internal/audit"
	"github.com/finsight-event-ledger/internal/config"
	"github.com/finsight-event-ledger/internal/data/postgres"
	"github.com/finsight-event-ledger/internal/logger"
	"github.com/finsight-event-ledger/internal/monitor"
	"github.com/finsight-event-ledger/internal/platform/persistence"
	"github.com/finsight-event-ledger/internal/server"
	"github.com/finsight-event-ledger/internal/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("finsight")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	eventRepo := postgres.NewEventRepository(log, postgresDB)
	budgetRepo := postgres.NewBudgetRepository(log, postgresDB)
	lookupRepo := postgres.NewLookupRepository(log, postgresDB)
	notificationRepo := postgres.NewNotificationRepository(log, postgresDB)
	activityRepo := postgres.NewActivityRepository(log, postgresDB)
	alertStateRepo := postgres.NewAlertStateRepository(log, postgresDB)

	// Initialize the aggregation engine, audit sink and budget monitor
	engine := aggregation.NewEngine(log, transactionRepo, lookupRepo)
	sink := audit.NewSink(log, notificationRepo, activityRepo)
	budgetMonitor := monitor.NewBudgetMonitor(log, budgetRepo, eventRepo, engine, alertStateRepo, sink, monitor.Config{
		LargeTransactionThreshold: cfg.Monitor.LargeTransactionThreshold,
		RepeatAlerts:              cfg.Monitor.RepeatAlerts,
	})

	// Initialize services
	transactionService := service.NewTransactionService(log, postgresDB, transactionRepo, engine, budgetMonitor, sink)
	reportService := service.NewReportService(log, engine, budgetMonitor, eventRepo)

	// Initialize REST server
	srv := server.NewServer(log, cfg, transactionService, reportService, sink)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so in-flight requests finish
	if err = srv.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
