package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/craftplan/pkg/cache"
	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/observability"
	"github.com/matzehuels/craftplan/pkg/planner"
	"github.com/matzehuels/craftplan/pkg/recipe"
)

// Source names the files a Runner plans against.
type Source struct {
	DatabasePath   string
	ItemsPath      string   // optional item lookup
	IgnoredPath    string   // optional {"ignoredDevices": [...]} file
	IgnoredDevices []string // merged with IgnoredPath
}

// Runner executes the planning pipeline with caching. It is safe for
// concurrent use.
type Runner struct {
	Source Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // plan lifetime; 0 keeps entries forever

	// OnPlanned, when set, is called by ExecuteAll after each target is
	// planned. Calls come from worker goroutines.
	OnPlanned func(target string, res *Result)

	mu     sync.Mutex
	pc     *planner.Context
	digest string
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses the DefaultKeyer.
func NewRunner(src Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: src,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLPlan,
	}
}

// Context returns the planning context, loading the source on first use.
// The digest identifies the loaded files for cache keys.
func (r *Runner) Context(ctx context.Context) (*planner.Context, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pc != nil {
		return r.pc, r.digest, nil
	}

	start := time.Now()
	pc, digest, err := load(r.Source)
	elapsed := time.Since(start)
	if err != nil {
		observability.Planner().OnLoad(ctx, 0, elapsed, err)
		return nil, "", err
	}
	observability.Planner().OnLoad(ctx, pc.Index.Len(), elapsed, nil)

	r.Logger.Info("loaded recipe database",
		"recipes", pc.Index.Len(),
		"ignored", pc.Index.Ignored(),
		"cycle_groups", pc.Cycles.Len(),
		"duration", elapsed)
	for _, broken := range pc.Cycles.Broken {
		r.Logger.Debug("cycle has an outside entry, expanding normally", "items", broken)
	}

	r.pc, r.digest = pc, digest
	return pc, digest, nil
}

// Invalidate drops the loaded context; the next call reloads the source.
func (r *Runner) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pc, r.digest = nil, ""
}

func load(src Source) (*planner.Context, string, error) {
	if src.DatabasePath == "" {
		return nil, "", errors.New(errors.ErrCodeInvalidConfig, "no recipe database configured")
	}
	data, err := readFile(src.DatabasePath, "recipe database")
	if err != nil {
		return nil, "", err
	}
	db, err := recipe.Parse(data)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidDatabase, err, "%s", src.DatabasePath)
	}

	ignored := slices.Clone(src.IgnoredDevices)
	if src.IgnoredPath != "" {
		more, err := recipe.LoadIgnoredDevices(src.IgnoredPath)
		if err != nil {
			return nil, "", err
		}
		ignored = append(ignored, more...)
	}
	slices.Sort(ignored)
	ignored = slices.Compact(ignored)

	var items recipe.Items
	var itemData []byte
	if src.ItemsPath != "" {
		if itemData, err = readFile(src.ItemsPath, "item lookup"); err != nil {
			return nil, "", err
		}
		if items, err = recipe.ParseItems(itemData); err != nil {
			return nil, "", err
		}
	}

	pc := planner.NewContext(recipe.NewIndex(db, ignored), items)
	digest := cache.HashParts(data, itemData, []byte(strings.Join(ignored, "\x00")))
	return pc, digest, nil
}

func readFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s %s", what, path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// Execute plans opts.Target, serving it from the cache when possible.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	pc, digest, err := r.Context(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := r.Keyer.PlanKey(digest, opts.PlanKeyOpts())
	if !opts.Refresh {
		if p, ok := r.cached(ctx, key); ok {
			opts.Logger.Debug("plan served from cache", "target", opts.Target)
			return &Result{
				Plan:     p,
				Stats:    Stats{Devices: p.TotalDevices},
				CacheHit: true,
			}, nil
		}
	}

	result := &Result{}

	buildStart := time.Now()
	tree := planner.Build(pc, opts.Target, opts.BuildOptions())
	result.Tree = tree
	result.Stats.Nodes = tree.Len()
	result.Stats.BuildTime = time.Since(buildStart)
	observability.Planner().OnBuild(ctx, opts.Target, tree.Len(), tree.Truncated(), result.Stats.BuildTime)

	opts.Logger.Debug("built dependency tree",
		"target", opts.Target,
		"nodes", tree.Len(),
		"truncated", tree.Truncated(),
		"duration", result.Stats.BuildTime)

	balanceStart := time.Now()
	plan, err := planner.FromTree(pc, tree, opts.PlanOptions())
	result.Stats.BalanceTime = time.Since(balanceStart)
	if err != nil {
		observability.Planner().OnBalance(ctx, opts.Target, 0, result.Stats.BalanceTime, err)
		return nil, err
	}
	observability.Planner().OnBalance(ctx, opts.Target, plan.TotalDevices, result.Stats.BalanceTime, nil)
	result.Plan = plan
	result.Stats.Devices = plan.TotalDevices

	for _, issue := range plan.Issues {
		opts.Logger.Warn(issue.Message, "item", issue.ItemID, "code", issue.Code)
	}
	opts.Logger.Info("balanced plan",
		"target", opts.Target,
		"rate", plan.Rate,
		"devices", plan.TotalDevices,
		"duration", result.Stats.BalanceTime)

	if data, err := json.Marshal(plan); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			opts.Logger.Debug("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}
	return result, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*planner.ProductionPlan, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "plan")
		return nil, false
	}
	var p planner.ProductionPlan
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		observability.Cache().OnCacheMiss(ctx, "plan")
		return nil, false
	}
	planner.Present(&p)
	observability.Cache().OnCacheHit(ctx, "plan")
	return &p, true
}

// ExecuteAll plans every target with the options of base, at most limit at
// a time (DefaultConcurrency when limit <= 0). Results keep target order.
// The first error cancels the remaining work. Each success is reported to
// OnPlanned.
func (r *Runner) ExecuteAll(ctx context.Context, base Options, targets []string, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	// Load once up front so workers never contend on the load.
	if _, _, err := r.Context(ctx); err != nil {
		return nil, err
	}

	results := make([]*Result, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, target := range targets {
		g.Go(func() error {
			res, err := r.Execute(gctx, base.ForTarget(target))
			if err != nil {
				return fmt.Errorf("plan %s: %w", target, err)
			}
			results[i] = res
			if r.OnPlanned != nil {
				r.OnPlanned(target, res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Tree builds only the dependency tree for opts.Target.
func (r *Runner) Tree(ctx context.Context, opts Options) (*planner.Tree, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	pc, _, err := r.Context(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tree := planner.Build(pc, opts.Target, opts.BuildOptions())
	observability.Planner().OnBuild(ctx, opts.Target, tree.Len(), tree.Truncated(), time.Since(start))
	return tree, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger routes planner logging through the runner's logger unless
// the caller supplied one.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
