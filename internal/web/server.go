// Package web provides the HTTP server for address search and import status.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/addresses/internal/config"
	"github.com/JonMunkholm/addresses/internal/core"
	"github.com/JonMunkholm/addresses/internal/logging"
	applog "github.com/JonMunkholm/addresses/internal/web/middleware"
)

// Searcher runs address searches. Satisfied by *core.Searcher.
type Searcher interface {
	Search(ctx context.Context, q core.SearchQuery) ([]core.Document, error)
}

// StateReader reads persisted import state. Satisfied by *core.StateStore.
type StateReader interface {
	Get(ctx context.Context, month string) (*core.ImportState, error)
}

// Pinger checks database reachability. Satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Searcher Searcher
	State    StateReader
	DB       Pinger
	Runner   core.Runner
	Limiter  *core.ImportLimiter
	Metrics  http.Handler

	// JobContext parents imports started over HTTP. They outlive the request
	// and stop when JobContext is cancelled.
	JobContext context.Context
}

// Server is the HTTP server for the address service.
type Server struct {
	deps   Deps
	cfg    config.ServerConfig
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance.
func NewServer(deps Deps, cfg config.ServerConfig) *Server {
	if deps.JobContext == nil {
		deps.JobContext = context.Background()
	}
	if deps.Limiter == nil {
		deps.Limiter = core.NewImportLimiter()
	}
	s := &Server{
		deps:   deps,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(applog.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	if s.deps.Metrics != nil {
		s.router.Handle("/metrics", s.deps.Metrics)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/addresses/search", s.handleSearch)

		r.Post("/imports/run", s.handleRunImport)
		r.Get("/imports/status", s.handleImportStatus)
		r.Get("/imports/{month}", s.handleImportState)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.cfg.Addr())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
