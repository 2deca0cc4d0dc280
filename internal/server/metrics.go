package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/codematrix/pkg/observability"
)

const metricsNamespace = "codematrix"

// Metrics exports pipeline, cache and HTTP events to Prometheus. It
// implements the observability hook interfaces; register it with
// [Metrics.Register].
type Metrics struct {
	registry *prometheus.Registry

	// LayoutDuration measures layout computation. Labels: viz_type.
	LayoutDuration *prometheus.HistogramVec
	// LayoutNodes observes the catalog size per layout. Labels: viz_type.
	LayoutNodes *prometheus.HistogramVec
	// LayoutErrors counts failed layouts. Labels: viz_type.
	LayoutErrors *prometheus.CounterVec
	// RenderDuration measures rendering of all requested formats.
	RenderDuration prometheus.Histogram
	// CacheEvents counts cache lookups and writes. Labels: key_type, event.
	CacheEvents *prometheus.CounterVec
	// Requests counts HTTP responses. Labels: method, route, status.
	Requests *prometheus.CounterVec
	// RequestDuration measures HTTP handling. Labels: method, route.
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry, so several servers
// (or tests) never collide on registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "layout_duration_seconds",
			Help:      "Time spent computing layouts.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"viz_type"}),
		LayoutNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "layout_nodes",
			Help:      "Catalog nodes per layout.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}, []string{"viz_type"}),
		LayoutErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "layout_errors_total",
			Help:      "Layouts that failed.",
		}, []string{"viz_type"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering artifacts.",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP responses by route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request handling time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Register installs m as the process-wide pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}

func (m *Metrics) OnLayoutStart(_ context.Context, vizType string, nodeCount int) {
	m.LayoutNodes.WithLabelValues(vizType).Observe(float64(nodeCount))
}

func (m *Metrics) OnLayoutComplete(_ context.Context, vizType string, _ int, d time.Duration, err error) {
	if err != nil {
		m.LayoutErrors.WithLabelValues(vizType).Inc()
		return
	}
	m.LayoutDuration.WithLabelValues(vizType).Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	if err == nil {
		m.RenderDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
