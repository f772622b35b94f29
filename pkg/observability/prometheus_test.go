package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnLoad(ctx, 10, time.Millisecond, nil)
	h.OnBuild(ctx, "gear", 5, false, time.Millisecond)
	h.OnBuild(ctx, "gear", 5000, true, time.Millisecond)
	h.OnBalance(ctx, "gear", 3, time.Millisecond, nil)
	h.OnBalance(ctx, "gear", 0, time.Millisecond, errors.New("bad recipe"))
	h.OnCacheMiss(ctx, "plan")
	h.OnCacheSet(ctx, "plan", 512)
	h.OnCacheHit(ctx, "plan")
	h.OnCacheHit(ctx, "plan")

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"loads ok", h.loads.WithLabelValues("ok"), 1},
		{"trees", h.trees, 2},
		{"truncated", h.truncated, 1},
		{"plans ok", h.plans.WithLabelValues("ok"), 1},
		{"plans error", h.plans.WithLabelValues("error"), 1},
		{"cache hits", h.cacheHits.WithLabelValues("plan"), 2},
		{"cache misses", h.cacheMisses.WithLabelValues("plan"), 1},
		{"cache bytes", h.cacheBytes.WithLabelValues("plan"), 512},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)
	h.OnBuild(context.Background(), "gear", 3, false, time.Millisecond)

	path := filepath.Join(t.TempDir(), "craftplan.prom")
	if err := WriteTextfile(path, reg); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "craftplan_trees_built_total 1") {
		t.Errorf("textfile missing tree counter:\n%s", data)
	}
}
