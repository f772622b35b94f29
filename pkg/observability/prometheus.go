package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks records planner and cache events as Prometheus metrics.
type PrometheusHooks struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram

	trees        prometheus.Counter
	truncated    prometheus.Counter
	treeNodes    prometheus.Histogram
	buildSeconds prometheus.Histogram

	plans          *prometheus.CounterVec
	devices        prometheus.Histogram
	balanceSeconds prometheus.Histogram

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "craftplan_database_loads_total",
			Help: "Recipe database loads by outcome",
		}, []string{"status"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "craftplan_database_load_duration_seconds",
			Help:    "Time to load and index a recipe database",
			Buckets: prometheus.DefBuckets,
		}),
		trees: f.NewCounter(prometheus.CounterOpts{
			Name: "craftplan_trees_built_total",
			Help: "Dependency trees built",
		}),
		truncated: f.NewCounter(prometheus.CounterOpts{
			Name: "craftplan_trees_truncated_total",
			Help: "Dependency trees cut short by depth or node limits",
		}),
		treeNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "craftplan_tree_nodes",
			Help:    "Nodes per dependency tree",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		buildSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "craftplan_tree_build_duration_seconds",
			Help:    "Time to build a dependency tree",
			Buckets: prometheus.DefBuckets,
		}),
		plans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "craftplan_plans_total",
			Help: "Plans balanced by outcome",
		}, []string{"status"}),
		devices: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "craftplan_plan_devices",
			Help:    "Total device count per plan",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		balanceSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "craftplan_balance_duration_seconds",
			Help:    "Time to select recipes and balance a plan",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "craftplan_cache_hits_total",
			Help: "Cache hits by key type",
		}, []string{"type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "craftplan_cache_misses_total",
			Help: "Cache misses by key type",
		}, []string{"type"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "craftplan_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"type"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnLoad(_ context.Context, _ int, d time.Duration, err error) {
	h.loads.WithLabelValues(status(err)).Inc()
	h.loadDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnBuild(_ context.Context, _ string, nodes int, truncated bool, d time.Duration) {
	h.trees.Inc()
	if truncated {
		h.truncated.Inc()
	}
	h.treeNodes.Observe(float64(nodes))
	h.buildSeconds.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnBalance(_ context.Context, _ string, devices int64, d time.Duration, err error) {
	h.plans.WithLabelValues(status(err)).Inc()
	if err == nil {
		h.devices.Observe(float64(devices))
	}
	h.balanceSeconds.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheHits.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheMisses.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// WriteTextfile writes every metric in g to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

var (
	_ PlannerHooks = (*PrometheusHooks)(nil)
	_ CacheHooks   = (*PrometheusHooks)(nil)
)
