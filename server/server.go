// Package server assembles the chi router, its middleware stack and the
// HTTP server lifecycle.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/genericbro/genericbro-api/config"
	"github.com/genericbro/genericbro-api/handlers"
	"github.com/genericbro/genericbro-api/interfaces"
	"github.com/genericbro/genericbro-api/logging"
	"github.com/genericbro/genericbro-api/metrics"
)

// Server wraps the http.Server and its routes.
type Server struct {
	server *http.Server
	router chi.Router
	cfg    *config.Config
}

// New builds the server with all middleware and routes configured.
func New(cfg *config.Config, finder interfaces.MedicineFinder, checker interfaces.HealthChecker) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		cfg:    cfg,
	}

	s.setupMiddleware()
	s.setupRoutes(finder, checker)
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.Middleware(logging.Logger()))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Middleware)
	s.router.Use(RequestSizeMiddleware(s.cfg))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(NewRateLimiter().Middleware)
}

func (s *Server) setupRoutes(finder interfaces.MedicineFinder, checker interfaces.HealthChecker) {
	s.router.Route("/finder", func(r chi.Router) {
		r.Post("/search", handlers.SearchMedicines(finder))
		r.Get("/suggestions/{field}", handlers.GetSuggestions(finder))
		r.Get("/medicine/{name}", handlers.GetMedicineDetails(finder))
		r.Get("/medicines/by_type", handlers.GetMedicinesByType(finder))
	})

	s.router.Get("/health", handlers.HealthCheck(checker))
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/", handlers.Root())
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	logging.Info("Starting server", "addr", s.server.Addr, "env", s.cfg.Env)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests, force-closing if the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
