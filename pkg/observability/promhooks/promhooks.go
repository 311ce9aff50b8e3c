// Package promhooks implements the observability hooks with Prometheus
// metrics. All metrics live in the csmtree namespace.
package promhooks

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/csmtree/pkg/observability"
)

const namespace = "csmtree"

// Hooks records pipeline, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	curves         *prometheus.CounterVec
	curveDuration  prometheus.Histogram
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	candidates     prometheus.Histogram
	evaluated      prometheus.Counter
	classes        prometheus.Histogram

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New creates the metrics and registers them with reg. It panics if any
// metric is already registered there.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		curves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "curve", Name: "total",
			Help: "Budget curves computed, by result.",
		}, []string{"result"}),
		curveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "curve", Name: "duration_seconds",
			Help:    "Time to enumerate subtrees and build a budget curve.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "search", Name: "total",
			Help: "Labeling searches run, by result.",
		}, []string{"result"}),
		searchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "search", Name: "duration_seconds",
			Help:    "Time to run a labeling search.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		candidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "search", Name: "candidates",
			Help:    "Candidate labelings per search.",
			Buckets: prometheus.ExponentialBuckets(1, 10, 8),
		}),
		evaluated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "search", Name: "evaluated_total",
			Help: "Candidate labelings scored across all searches.",
		}),
		classes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "search", Name: "classes",
			Help:    "Optimal isomorphism classes per search.",
			Buckets: []float64{1, 2, 4, 8, 16, 64, 256},
		}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "hits_total",
			Help: "Cache hits, by key type.",
		}, []string{"key_type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "misses_total",
			Help: "Cache misses, by key type.",
		}, []string{"key_type"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "http", Name: "in_flight_requests",
			Help: "Requests currently being served.",
		}),
	}
}

// Register installs h as the global pipeline, cache and HTTP hooks.
func (h *Hooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *Hooks) OnCurveStart(context.Context, int) {}

func (h *Hooks) OnCurveComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	h.curves.WithLabelValues(result(err)).Inc()
	h.curveDuration.Observe(d.Seconds())
}

func (h *Hooks) OnSearchStart(_ context.Context, _ int, candidates uint64) {
	h.candidates.Observe(float64(candidates))
}

func (h *Hooks) OnSearchComplete(_ context.Context, s observability.SearchStats, d time.Duration, err error) {
	h.searches.WithLabelValues(result(err)).Inc()
	h.searchDuration.Observe(d.Seconds())
	h.evaluated.Add(float64(s.Evaluated))
	if err == nil {
		h.classes.Observe(float64(s.Classes))
	}
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheHits.WithLabelValues(keyType).Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheMisses.WithLabelValues(keyType).Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) {
	h.inFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.inFlight.Dec()
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
