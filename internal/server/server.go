package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/finsight-event-ledger/internal/audit"
	"github.com/finsight-event-ledger/internal/config"
	"github.com/finsight-event-ledger/internal/server/handler"
	"github.com/finsight-event-ledger/internal/service"
	"github.com/gin-gonic/gin"
)

// Server owns the HTTP listener and its gin router.
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer builds the handler set over the given services and mounts the
// routes.
func NewServer(log *slog.Logger, cfg *config.Config, transactionService service.TransactionService, reportService service.ReportService, sink *audit.Sink) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	transactionHandler := handler.NewTransactionHandler(log, transactionService)
	reportHandler := handler.NewReportHandler(log, reportService)
	notificationHandler := handler.NewNotificationHandler(log, sink)

	setupRouter(log, httpRouter, transactionHandler, reportHandler, notificationHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start listens until Stop is called; a clean shutdown is not an error.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
