// Package pipeline runs the load → build → select → balance chain with
// caching, for the CLI and any other entry point.
//
// A [Runner] owns one recipe database. It loads and indexes the database
// on first use, detects cycles once, and shares the resulting read-only
// planning context across every plan it computes, including concurrent
// ones from [Runner.ExecuteAll]. Call [Runner.Invalidate] after the files
// change on disk.
//
//	runner := pipeline.NewRunner(pipeline.Source{DatabasePath: "recipes.json"}, c, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{Target: "gear"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Plan.Rate, result.CacheHit)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftplan/pkg/cache"
	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/planner"
	"github.com/matzehuels/craftplan/pkg/rational"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultMaxDepth = planner.DefaultMaxDepth
	DefaultMaxNodes = planner.DefaultMaxNodes
	DefaultPolicy   = planner.DefaultPolicy
	DefaultTimeBase = "60"

	// DefaultConcurrency bounds ExecuteAll.
	DefaultConcurrency = 4
)

// =============================================================================
// Options
// =============================================================================

// Options configures one plan. It supports JSON so batch requests can be
// read from files.
type Options struct {
	Target        string   `json:"target"`
	BaseMaterials []string `json:"base_materials,omitempty"`
	Policy        string   `json:"policy,omitempty"`
	MaxDepth      int      `json:"max_depth,omitempty"`
	MaxNodes      int      `json:"max_nodes,omitempty"`
	TimeBase      string   `json:"time_base,omitempty"` // seconds, rational
	Refresh       bool     `json:"refresh,omitempty"`   // skip cache reads

	Logger *log.Logger `json:"-"`

	policy    planner.Policy
	timeBase  rational.Rational
	validated bool
}

// Result is the output of one pipeline run.
type Result struct {
	Plan     *planner.ProductionPlan
	Tree     *planner.Tree // nil when the plan came from the cache
	Stats    Stats
	CacheHit bool
}

// Stats holds timing and size information for a run.
type Stats struct {
	Nodes       int
	Devices     int64
	BuildTime   time.Duration
	BalanceTime time.Duration
}

// ValidateAndSetDefaults checks required fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateItemID(o.Target); err != nil {
		return err
	}
	for _, b := range o.BaseMaterials {
		if err := errors.ValidateItemID(b); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "base material %q", b)
		}
	}

	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxDepth < 0 || o.MaxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth and max nodes must be positive")
	}

	policy, err := planner.PolicyByName(o.Policy)
	if err != nil {
		return err
	}
	o.policy = policy
	o.Policy = policy.Name()

	if strings.TrimSpace(o.TimeBase) == "" {
		o.TimeBase = DefaultTimeBase
	}
	tb, err := rational.Parse(o.TimeBase)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "time base %q", o.TimeBase)
	}
	if !tb.IsPositive() {
		return errors.New(errors.ErrCodeInvalidInput, "time base must be positive, got %s", tb)
	}
	o.timeBase = tb
	o.TimeBase = tb.String()

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// BuildOptions returns the tree options. Call after ValidateAndSetDefaults.
func (o *Options) BuildOptions() planner.BuildOptions {
	return planner.BuildOptions{
		BaseMaterials: o.BaseMaterials,
		MaxDepth:      o.MaxDepth,
		MaxNodes:      o.MaxNodes,
		Logger:        o.Logger,
	}
}

// PlanOptions returns the planner options. Call after ValidateAndSetDefaults.
func (o *Options) PlanOptions() planner.PlanOptions {
	return planner.PlanOptions{
		BaseMaterials: o.BaseMaterials,
		Policy:        o.policy,
		MaxDepth:      o.MaxDepth,
		MaxNodes:      o.MaxNodes,
		TimeBase:      o.timeBase,
		Logger:        o.Logger,
	}
}

// PlanKeyOpts returns the cache key inputs for a plan.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	return cache.PlanKeyOpts{
		Target:        o.Target,
		Policy:        o.Policy,
		BaseMaterials: o.BaseMaterials,
		MaxDepth:      o.MaxDepth,
		MaxNodes:      o.MaxNodes,
		TimeBase:      o.TimeBase,
	}
}

// ForTarget returns a copy of o planning target instead.
func (o Options) ForTarget(target string) Options {
	o.Target = target
	o.validated = false
	return o
}

func (o *Options) String() string {
	return fmt.Sprintf("%s (policy=%s, time base=%ss, base=%v)", o.Target, o.Policy, o.TimeBase, o.BaseMaterials)
}
