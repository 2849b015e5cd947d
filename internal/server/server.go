// Package server provides the HTTP server and routing for the valuation dashboard.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/graham/internal/config"
	"github.com/aristath/graham/internal/di"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	systemHandlers *SystemHandlers
	proxyHandlers  *ProxyHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	c := cfg.Container

	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		container: c,
		systemHandlers: NewSystemHandlers(SystemDeps{
			DataDir:   cfg.Config.DataDir,
			Databases: c.Databases(),
			Cache:     c.ClientDataRepo,
			Jobs:      c.Scheduler,
			Backups:   c.BackupService,
			Upstream:  c.FMPClient,
		}, cfg.Log),
		proxyHandlers: NewProxyHandlers(c.FMPClient, cfg.Log),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// A cold dashboard load fans out two upstream calls per ticker
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(corsOptions(s.cfg.AllowedOrigins)))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// corsOptions allows only the configured origins. Requests from any other
// origin get no CORS headers.
func corsOptions(allowed []string) cors.Options {
	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		s.proxyHandlers.RegisterRoutes(r)

		s.container.DashboardHandler.RegisterRoutes(r)
		s.container.CompanyHandler.RegisterRoutes(r)
		s.container.GroupsHandler.RegisterRoutes(r)
		s.container.SettingsHandler.RegisterRoutes(r)

		s.systemHandlers.RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
