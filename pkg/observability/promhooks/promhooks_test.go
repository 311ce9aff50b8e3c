package promhooks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/csmtree/pkg/observability"
)

func TestSearchMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnSearchStart(ctx, 4, 36)
	h.OnSearchComplete(ctx, observability.SearchStats{Nodes: 4, Candidates: 36, Evaluated: 36, Classes: 2}, time.Millisecond, nil)
	h.OnSearchComplete(ctx, observability.SearchStats{Evaluated: 5}, time.Millisecond, errors.New("canceled"))

	if got := testutil.ToFloat64(h.searches.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.searches.WithLabelValues("error")); got != 1 {
		t.Errorf("failed searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.evaluated); got != 41 {
		t.Errorf("evaluated = %v, want 41", got)
	}
}

func TestCacheMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnCacheHit(ctx, "curve")
	h.OnCacheHit(ctx, "curve")
	h.OnCacheMiss(ctx, "search")
	h.OnCacheSet(ctx, "search", 512)

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"curve hits", h.cacheHits.WithLabelValues("curve"), 2},
		{"search hits", h.cacheHits.WithLabelValues("search"), 0},
		{"search misses", h.cacheMisses.WithLabelValues("search"), 1},
		{"search bytes", h.cacheBytes.WithLabelValues("search"), 512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPMetrics(t *testing.T) {
	ctx := context.Background()
	h := New(prometheus.NewRegistry())

	h.OnRequest(ctx, "POST", "/v1/curve")
	if got := testutil.ToFloat64(h.inFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	h.OnResponse(ctx, "POST", "/v1/curve", 200, 10*time.Millisecond)
	if got := testutil.ToFloat64(h.inFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(h.requests.WithLabelValues("POST", "/v1/curve", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestNewRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.OnCurveComplete(context.Background(), 3, 4, time.Millisecond, nil)

	n, err := testutil.GatherAndCount(reg, "csmtree_curve_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 1 {
		t.Errorf("csmtree_curve_total series = %d, want 1", n)
	}
}

func TestRegister(t *testing.T) {
	defer observability.Reset()
	h := New(prometheus.NewRegistry())
	h.Register()

	if observability.Pipeline() != h || observability.Cache() != h || observability.HTTP() != h {
		t.Error("Register should install the hooks globally")
	}
}
