// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; main decides what
// receives them. The defaults are no-ops, so nothing is recorded unless a
// backend such as [PrometheusHooks] is registered at startup:
//
//	h := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	observability.SetPlannerHooks(h)
//	observability.SetCacheHooks(h)
//
// Libraries call hooks around each stage:
//
//	observability.Planner().OnBuild(ctx, target, nodes, truncated, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Planner Hooks
// =============================================================================

// PlannerHooks receives events from database loading and planning.
type PlannerHooks interface {
	// OnLoad records loading a recipe database.
	OnLoad(ctx context.Context, recipes int, duration time.Duration, err error)

	// OnBuild records building a dependency tree.
	OnBuild(ctx context.Context, target string, nodes int, truncated bool, duration time.Duration)

	// OnBalance records selecting and balancing a plan.
	OnBalance(ctx context.Context, target string, devices int64, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is "plan" or "tree".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlannerHooks is a no-op implementation of PlannerHooks.
type NoopPlannerHooks struct{}

func (NoopPlannerHooks) OnLoad(context.Context, int, time.Duration, error)               {}
func (NoopPlannerHooks) OnBuild(context.Context, string, int, bool, time.Duration)       {}
func (NoopPlannerHooks) OnBalance(context.Context, string, int64, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	plannerHooks PlannerHooks = NoopPlannerHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetPlannerHooks registers planner hooks. Call it once at startup.
// A nil h is ignored.
func SetPlannerHooks(h PlannerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plannerHooks = h
	}
}

// SetCacheHooks registers cache hooks. Call it once at startup.
// A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Planner returns the registered planner hooks.
func Planner() PlannerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plannerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op defaults. Tests use it.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	plannerHooks = NoopPlannerHooks{}
	cacheHooks = NoopCacheHooks{}
}
