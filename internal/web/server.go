// Package web serves the check results of the configured seasons as a JSON
// API and lets authorized clients trigger rechecks.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JonMunkholm/krotoncheck/internal/config"
	"github.com/JonMunkholm/krotoncheck/internal/core"
	"github.com/JonMunkholm/krotoncheck/internal/report"
	"github.com/JonMunkholm/krotoncheck/internal/service"
	"github.com/JonMunkholm/krotoncheck/internal/web/middleware"
)

// Checker is the part of *service.Service the server uses.
type Checker interface {
	Seasons(ctx context.Context) ([]service.SeasonStatus, error)
	Latest(ctx context.Context, key string) (*report.Report, error)
	Colors(ctx context.Context, key string, receiver core.Receiver) ([]report.ColorGroup, error)
	Recheck(ctx context.Context, key string) (*report.Report, error)
	LimiterStatus() service.CheckLimiterStatus
}

// Server is the HTTP server of the API.
type Server struct {
	checker Checker
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *middleware.RateLimiter
}

// NewServer creates a Server.
func NewServer(checker Checker, cfg *config.Config) *Server {
	s := &Server{
		checker: checker,
		cfg:     cfg,
		router:  chi.NewRouter(),
		limiter: middleware.NewRateLimiter(cfg.Security.RecheckPerMinute, time.Minute),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)

	if len(s.cfg.Security.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Security.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/seasons", func(r chi.Router) {
		r.Get("/", s.handleListSeasons)
		r.Route("/{key}", func(r chi.Router) {
			r.Get("/problems", s.handleProblems)
			r.Get("/colors", s.handleColors)
			r.With(
				middleware.APIKeyAuth(s.cfg.Security.APIKeys),
				s.limiter.Middleware,
			).Post("/recheck", s.handleRecheck)
		})
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	go s.limiter.Cleanup(ctx)

	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
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

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
