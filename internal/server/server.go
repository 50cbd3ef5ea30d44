// Package server hosts the HTTP and WebSocket API for the resolver.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cexsync/cexsync/internal/domain"
	"github.com/cexsync/cexsync/internal/server/handler"
	"github.com/cexsync/cexsync/internal/server/middleware"
	"github.com/cexsync/cexsync/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // empty disables authentication
	RateLimit   int    // requests per minute per client, 0 disables
}

// Handlers aggregates the HTTP handlers the server registers.
type Handlers struct {
	Health      *handler.HealthHandler
	Resolve     *handler.ResolveHandler
	Catalog     *handler.CatalogHandler
	Resolutions *handler.ResolutionsHandler
	Archives    *handler.ArchivesHandler
}

// Server is the headless HTTP + WebSocket API server.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer registers all routes on a ServeMux and wires the middleware
// chain (rate limiting, auth, logging, CORS). limiter is optional; without
// it the rate limit middleware is skipped.
func NewServer(cfg Config, handlers Handlers, wsHub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check. The auth middleware exempts this path.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Resolution endpoints.
	mux.HandleFunc("GET /api/resolve/{symbol}", handlers.Resolve.Resolve)
	mux.HandleFunc("GET /api/resolutions", handlers.Resolutions.List)

	// Catalog endpoints.
	mux.HandleFunc("GET /api/catalog", handlers.Catalog.ListVenues)
	mux.HandleFunc("GET /api/catalog/{venue}", handlers.Catalog.GetVenue)

	// Snapshot archive listing.
	mux.HandleFunc("GET /api/archives", handlers.Archives.List)

	// WebSocket endpoint.
	if wsHub != nil {
		mux.HandleFunc("GET /ws", wsHub.HandleWS)
	}

	var h http.Handler = mux
	if limiter != nil && cfg.RateLimit > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimit, time.Minute)(h)
	}
	h = middleware.Auth(cfg.APIKey)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests to
// complete within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
