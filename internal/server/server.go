// Package server exposes the pipeline over HTTP.
//
//	POST /v1/classify             segment buckets of a catalog
//	POST /v1/layout               matrix layout as JSON
//	POST /v1/render?format=svg    rendered artifact (svg, json, png, pdf)
//	GET  /healthz                 liveness, version and cache backend
//	GET  /metrics                 Prometheus metrics
//
// Request bodies are either a bare catalog document or an envelope
// {"catalog": {...}, "layout": {...}, "show_edges": true}; layout values
// override the server's defaults key by key.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/codematrix/pkg/layout"
	"github.com/matzehuels/codematrix/pkg/pipeline"
)

// DefaultMaxBodySize caps request bodies.
const DefaultMaxBodySize = 32 << 20

// DefaultRequestTimeout bounds a single request, rendering included.
const DefaultRequestTimeout = 60 * time.Second

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *Metrics
	layout  layout.Config
	maxBody int64
	timeout time.Duration
	router  chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLayoutConfig sets the layout defaults that request overrides apply to.
func WithLayoutConfig(c layout.Config) Option { return func(s *Server) { s.layout = c } }

// WithMetrics serves m's registry at /metrics. Without it /metrics is 404.
func WithMetrics(m *Metrics) Option { return func(s *Server) { s.metrics = m } }

func WithMaxBodySize(n int64) Option { return func(s *Server) { s.maxBody = n } }

func WithRequestTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New builds the server and its routes.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		layout:  layout.DefaultConfig(),
		maxBody: DefaultMaxBodySize,
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.withRequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.timeout))
		r.Post("/classify", s.handleClassify)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
