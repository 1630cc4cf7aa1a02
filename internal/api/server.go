// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"listing-wizard/internal/common/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

// ServerConfig carries the HTTP settings.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the wizard REST API.
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// NewRouter mounts the wizard routes, /metrics and /healthz.
func NewRouter(h *WizardHandler, verifier TokenVerifier, checks map[string]HealthFunc, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware(log))
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(checks))

	r.Route("/api/v1/wizards/{flow}", func(r chi.Router) {
		r.Use(AuthMiddleware(verifier))

		r.Post("/", h.Open)
		r.Get("/", h.Get)
		r.Delete("/", h.Cancel)
		r.Patch("/sections/{section}", h.UpdateSection)
		r.Post("/blur", h.Blur)
		r.Post("/validate", h.Validate)
		r.Post("/attachments/{field}", h.Attach)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Post("/save", h.Save)
		r.Post("/submit", h.Submit)
		r.Get("/events", h.Events)
	})
	return r
}

func NewServer(cfg ServerConfig, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: log,
	}
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting wizard API", map[string]interface{}{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping wizard API", nil)
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(checks map[string]HealthFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				result[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}
		RespondWithJSON(w, status, result)
	}
}
