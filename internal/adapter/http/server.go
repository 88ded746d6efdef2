package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes health, readiness, metrics and the dashboard JSON API.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// Options holds the optional parts of the router.
type Options struct {
	// AllowedOrigins configures CORS for the dashboard API. Empty disables CORS.
	AllowedOrigins []string
	// FeatureNames are the map features the choropleth is rendered for.
	FeatureNames []string
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api routes backed by dash.
func NewServer(addr string, ready sharedobs.ReadinessChecker, dash Dashboard, opts Options, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	h := &handlers{dash: dash, featureNames: opts.FeatureNames, logger: logger}
	r.Route("/api", func(api chi.Router) {
		if len(opts.AllowedOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: opts.AllowedOrigins,
				AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				MaxAge:         300,
			}))
		}
		api.Use(middleware.Timeout(10 * time.Second))

		api.Get("/countries", h.countries)
		api.Get("/parameters", h.parameters)
		api.Get("/selection", h.getSelection)
		api.Put("/selection", h.putSelection)
		api.Get("/barchart", h.barChart)
		api.Get("/map", h.choropleth)
		api.Get("/points", h.points)
		api.Get("/compare", h.compare)
		api.Get("/legend", h.legend)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
