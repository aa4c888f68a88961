// Package api serves the episode catalog over HTTP and websockets.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/service"
)

// Options configures the router.
type Options struct {
	// CORSOrigins lists allowed origins. Empty allows all.
	CORSOrigins []string
	// Registry receives the service metrics. A fresh registry is created when nil.
	Registry *prometheus.Registry
	// DefaultSort applies when a request omits sort.
	DefaultSort models.SortMode
}

// Server holds the HTTP handlers.
type Server struct {
	svc      *service.BrowseService
	logger   *slog.Logger
	validate *validator.Validate
	registry *prometheus.Registry
	opts     Options
}

// New creates a server and registers the service metrics.
func New(svc *service.BrowseService, logger *slog.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
	}
	if err := svc.Metrics().Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return &Server{
		svc:      svc,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		registry: reg,
		opts:     opts,
	}, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(s.logger))

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/ws", s.live)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/episodes", s.listEpisodes)
		r.Get("/episodes/{number}", s.getEpisode)
		r.Get("/stats", s.stats)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
