// Package api serves curves, labeling searches and isomorphism checks over
// HTTP.
//
// Routes:
//
//	GET  /healthz
//	POST /v1/curve          {"tree": {...}}
//	POST /v1/search         {"tree": {...}, "costs": [...], "prizes": [...]}
//	POST /v1/isomorphic     {"a": {...}, "b": {...}}
//	POST /v1/render         {"tree": {...}, "format": "svg"}
//	GET  /v1/results        ?kind=search&tree_hash=...&limit=10
//	GET  /v1/results/{id}
//	GET  /metrics           (when a gatherer is configured)
//
// Trees use the node-link document of package graph. Errors are returned
// as {"error": {"code": "...", "message": "..."}} with a status derived from
// the error code.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/csmtree/pkg/pipeline"
	"github.com/matzehuels/csmtree/pkg/storage"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

// Config configures a [Server].
type Config struct {
	// Runner computes results. Its Store, when set, backs /v1/results.
	Runner *pipeline.Runner

	// Defaults are applied to search requests. Requests may lower
	// MaxCandidates and MaxSubtrees but never raise them.
	Defaults pipeline.Options

	// Gatherer, when set, is exposed on /metrics.
	Gatherer prometheus.Gatherer

	// RequestTimeout bounds each request. Zero disables the timeout.
	RequestTimeout time.Duration

	Logger *log.Logger
}

// Server is the HTTP API. It implements http.Handler.
type Server struct {
	runner   *pipeline.Runner
	store    storage.Store
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New builds the server and its routes.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	s := &Server{
		runner:   runner,
		store:    runner.Store,
		defaults: cfg.Defaults,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/curve", s.handleCurve)
		r.Post("/search", s.handleSearch)
		r.Post("/isomorphic", s.handleIsomorphic)
		r.Post("/render", s.handleRender)
		r.Get("/results", s.handleListResults)
		r.Get("/results/{id}", s.handleGetResult)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
