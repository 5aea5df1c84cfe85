package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/payopt/internal/api/handlers"
	"github.com/eshaffer321/payopt/internal/api/middleware"
	"github.com/eshaffer321/payopt/internal/application/optimizer"
	"github.com/eshaffer321/payopt/internal/infrastructure/metrics"
	"github.com/eshaffer321/payopt/internal/infrastructure/storage"
)

// Config holds API server configuration. Defaults come from the
// application config.
type Config struct {
	Port           int
	AllowedOrigins []string
	MaxOrders      int // per request, 0 for unlimited
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository // optional, enables /api/runs
	service    *optimizer.Service
	metrics    *metrics.Metrics // optional, enables /metrics
}

// NewServer creates a new API server.
// If repo is nil, run history endpoints will not be available.
func NewServer(cfg Config, service *optimizer.Service, repo storage.Repository, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:  cfg,
		router:  gin.New(),
		logger:  logger,
		repo:    repo,
		service: service,
		metrics: m,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	// Request logging
	s.router.Use(middleware.Logging(s.logger, "/health", "/metrics"))

	// CORS
	s.router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
	}))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check and metrics (no /api prefix - for load balancers and scrapers)
	s.router.GET("/health", handlers.Health)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := s.router.Group("/api")
	{
		allocations := handlers.NewAllocationsHandler(s.service, s.config.MaxOrders, s.logger)
		api.POST("/allocations", allocations.Create)

		if s.repo != nil {
			runs := handlers.NewRunsHandler(s.repo)
			api.GET("/runs", runs.List)
			api.GET("/runs/:id", runs.Get)
			api.GET("/runs/:id/allocations", runs.Allocations)
		}
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() http.Handler {
	return s.router
}
