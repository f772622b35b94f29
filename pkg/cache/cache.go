// Package cache stores computed planning results between runs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// shared deployments and [NullCache] when caching is disabled. Keys come
// from a [Keyer] so the same result is always found under the same key
// regardless of backend.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().PlanKey(digest, cache.PlanKeyOpts{Target: "gear"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"slices"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they hold.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// TTLPlan is the default lifetime of a cached plan.
const TTLPlan = 7 * 24 * time.Hour

// PlanKeyOpts are the inputs that change a plan for a fixed database.
type PlanKeyOpts struct {
	Target        string   `json:"target"`
	Policy        string   `json:"policy"`
	BaseMaterials []string `json:"base"`
	MaxDepth      int      `json:"max_depth"`
	MaxNodes      int      `json:"max_nodes"`
	TimeBase      string   `json:"time_base"`
}

// Keyer derives cache keys. dbDigest identifies the recipe database and
// ignored-device set the result was computed from.
type Keyer interface {
	PlanKey(dbDigest string, opts PlanKeyOpts) string
}

// DefaultKeyer hashes every input into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey returns "plan:<sha256>". Base material order does not matter.
func (DefaultKeyer) PlanKey(dbDigest string, opts PlanKeyOpts) string {
	opts.BaseMaterials = sortedCopy(opts.BaseMaterials)
	return hashKey("plan", dbDigest, opts)
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}
