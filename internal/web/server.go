// Package web exposes the registered news tables over a JSON HTTP API.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/newsroom/internal/config"
	"github.com/JonMunkholm/newsroom/internal/core"
	"github.com/JonMunkholm/newsroom/internal/lookup"
	mw "github.com/JonMunkholm/newsroom/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

// Options carries the settings the HTTP layer needs.
type Options struct {
	Server   config.ServerConfig
	Query    config.QueryConfig
	Rate     config.RateLimitConfig
	Security config.SecurityConfig
}

// Server is the HTTP server for the news API.
type Server struct {
	service *core.Service
	press   *lookup.PressDirectory
	opts    Options
	loc     *time.Location
	limiter *rateLimiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, press *lookup.PressDirectory, opts Options) *Server {
	if press == nil {
		press = lookup.DefaultPressDirectory()
	}
	if opts.Query.DefaultLimit <= 0 {
		opts.Query.DefaultLimit = core.DefaultLimit
	}
	if opts.Query.MaxLimit < opts.Query.DefaultLimit {
		opts.Query.MaxLimit = opts.Query.DefaultLimit
	}

	s := &Server{
		service: service,
		press:   press,
		opts:    opts,
		loc:     opts.Query.Location(),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.opts.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.opts.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.opts.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders)

	if len(s.opts.Security.CORSOrigins) > 0 {
		s.router.Use(cors.New(cors.Options{
			AllowedOrigins: s.opts.Security.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}).Handler)
	}

	if s.opts.Rate.Enabled {
		s.limiter = newRateLimiter(s.opts.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)

		// Publisher directory; /api/press is the press table itself.
		r.Get("/press-directory", s.handleListPress)
		r.Get("/press-directory/{pid}", s.handleGetPress)

		// Generic table CRUD
		r.Route("/{table}", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Get("/{id}", s.handleGet)
			r.Patch("/{id}", s.handleUpdate)
			r.Delete("/{id}", s.handleDelete)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.Server.ReadTimeout,
		WriteTimeout: s.opts.Server.WriteTimeout,
		IdleTimeout:  s.opts.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.stop()
	}
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
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
