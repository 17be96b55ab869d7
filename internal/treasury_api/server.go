package treasury_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/treasury-dashboard/internal/config"
	"github.com/treasury-dashboard/internal/treasury_api/handler"
	"github.com/treasury-dashboard/internal/treasury_api/middleware"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger          *slog.Logger
	httpServer      *http.Server
	httpRouter      *gin.Engine
	shutdownTimeout time.Duration
}

// NewServer creates and configures the HTTP server over api
func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	api service.API,
	registry *prometheus.Registry,
	metrics middleware.HTTPMetrics,
) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()
	setupRouter(log, httpRouter, handlers{
		state:    handler.NewStateHandler(log, api, cfg.Treasury.SubscriberBuffer, cfg.Server.SSEHeartbeat),
		accounts: handler.NewAccountHandler(log, api),
		payments: handler.NewPaymentHandler(log, api),
		activity: handler.NewActivityHandler(log, api),
		forecast: handler.NewForecastHandler(log, api),
		summary:  handler.NewSummaryHandler(api),
		users:    handler.NewUserHandler(log, api),
	}, registry, metrics)

	// no WriteTimeout: it would cut off the change stream
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           httpRouter,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:          log,
		httpServer:      httpServer,
		httpRouter:      httpRouter,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server within the configured shutdown timeout.
// Open change streams end when their request contexts are canceled.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
