package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftplan/pkg/cache"
	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/observability"
)

const factoryDB = `{
  "recipes": {
    "press":  {"deviceId": "press", "deviceName": "Press",
               "materials": [{"id": "iron", "name": "Iron", "count": 1}],
               "products":  [{"id": "plate", "name": "Plate", "count": 2}],
               "manufacturingTime": 3},
    "gear":   {"deviceId": "asm", "deviceName": "Assembler",
               "materials": [{"id": "plate", "name": "Plate", "count": 3}],
               "products":  [{"id": "gear", "name": "Gear", "count": 1}],
               "manufacturingTime": 6},
    "rod":    {"deviceId": "lathe", "deviceName": "Lathe",
               "materials": [{"id": "iron", "name": "Iron", "count": 1}],
               "products":  [{"id": "rod", "name": "Rod", "count": 1}],
               "manufacturingTime": 1},
    "rod-fast": {"deviceId": "laser", "deviceName": "Laser Cutter",
               "materials": [{"id": "plate", "name": "Plate", "count": 1}],
               "products":  [{"id": "rod", "name": "Rod", "count": 4}],
               "manufacturingTime": 0.5}
  }
}`

func writeDB(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	r := NewRunner(Source{DatabasePath: writeDB(t, factoryDB)}, c, nil, quietLogger())
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t, nil)

	res, err := r.Execute(context.Background(), Options{Target: "gear"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheHit {
		t.Error("first run cannot hit a null cache")
	}
	if res.Plan.Rate.String() != "10" || res.Plan.TotalDevices != 2 {
		t.Errorf("plan rate %s with %d devices, want 10 with 2", res.Plan.Rate, res.Plan.TotalDevices)
	}
	if res.Tree == nil || res.Stats.Nodes != 3 {
		t.Errorf("tree stats = %+v", res.Stats)
	}
}

func TestExecuteCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, fc)
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Target: "gear"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, Options{Target: "gear"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.Tree != nil {
		t.Fatalf("second run: hit=%v tree=%v, want a cache hit", second.CacheHit, second.Tree)
	}
	if !second.Plan.Rate.Equal(first.Plan.Rate) || second.Plan.RatePerMinute != first.Plan.RatePerMinute {
		t.Error("cached plan differs from the computed one")
	}

	refreshed, err := r.Execute(ctx, Options{Target: "gear", Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	other, err := r.Execute(ctx, Options{Target: "gear", TimeBase: "3600"})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("a different time base must not share the cache entry")
	}
}

func TestInvalidateReloads(t *testing.T) {
	fc, _ := cache.NewFileCache(t.TempDir())
	path := writeDB(t, factoryDB)
	r := NewRunner(Source{DatabasePath: path}, fc, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Target: "gear"}); err != nil {
		t.Fatal(err)
	}
	_, before, _ := r.Context(ctx)

	faster := `{"recipes": {"gear": {"materials": [{"id": "plate", "count": 3}],
	  "products": [{"id": "gear", "count": 1}], "manufacturingTime": 1}}}`
	if err := os.WriteFile(path, []byte(faster), 0644); err != nil {
		t.Fatal(err)
	}

	// Without Invalidate the loaded context stays in use.
	if _, same, _ := r.Context(ctx); same != before {
		t.Error("context reloaded without Invalidate")
	}

	r.Invalidate()
	res, err := r.Execute(ctx, Options{Target: "gear"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("changed database served a stale cached plan")
	}
	if res.Plan.Rate.String() != "60" {
		t.Errorf("Rate = %s, want 60 from the new recipe", res.Plan.Rate)
	}
}

func TestExecuteAll(t *testing.T) {
	r := newTestRunner(t, nil)
	targets := []string{"gear", "rod", "plate", "iron"}

	results, err := r.ExecuteAll(context.Background(), Options{}, targets, 2)
	if err != nil {
		t.Fatalf("ExecuteAll: %v", err)
	}
	if len(results) != len(targets) {
		t.Fatalf("len(results) = %d", len(results))
	}
	for i, res := range results {
		if res.Plan.Target.ID != targets[i] {
			t.Errorf("results[%d] is for %s, want %s", i, res.Plan.Target.ID, targets[i])
		}
	}
	// The laser cutter is the faster rod recipe.
	if got := results[1].Plan.Devices[0].RecipeID; got != "rod-fast" {
		t.Errorf("rod recipe = %s, want rod-fast", got)
	}
	if len(results[3].Plan.Devices) != 0 {
		t.Error("iron has no recipe and needs no devices")
	}
}

func TestExecuteAllReportsEachTarget(t *testing.T) {
	r := newTestRunner(t, nil)
	var (
		mu   sync.Mutex
		seen []string
	)
	r.OnPlanned = func(target string, res *Result) {
		mu.Lock()
		defer mu.Unlock()
		if res.Plan.Target.ID != target {
			t.Errorf("OnPlanned(%s) got plan for %s", target, res.Plan.Target.ID)
		}
		seen = append(seen, target)
	}

	if _, err := r.ExecuteAll(context.Background(), Options{}, []string{"gear", "rod", "plate"}, 3); err != nil {
		t.Fatal(err)
	}
	slices.Sort(seen)
	if want := []string{"gear", "plate", "rod"}; !slices.Equal(seen, want) {
		t.Errorf("reported %v, want %v", seen, want)
	}
}

func TestExecuteAllStopsOnError(t *testing.T) {
	r := newTestRunner(t, nil)
	_, err := r.ExecuteAll(context.Background(), Options{}, []string{"gear", " "}, 0)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestTree(t *testing.T) {
	r := newTestRunner(t, nil)
	tree, err := r.Tree(context.Background(), Options{Target: "gear", BaseMaterials: []string{"plate"}})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 2 {
		t.Errorf("Len() = %d, want 2 with plate as base", tree.Len())
	}
}

func TestIgnoredDevices(t *testing.T) {
	dir := t.TempDir()
	ignored := filepath.Join(dir, "ignored.json")
	if err := os.WriteFile(ignored, []byte(`{"ignoredDevices": ["laser"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(Source{DatabasePath: writeDB(t, factoryDB), IgnoredPath: ignored}, nil, nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{Target: "rod"})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Plan.Devices[0].RecipeID; got != "rod" {
		t.Errorf("recipe = %s, want rod with the laser ignored", got)
	}
}

func TestItemsLookup(t *testing.T) {
	dir := t.TempDir()
	items := filepath.Join(dir, "items.json")
	if err := os.WriteFile(items, []byte(`{"gear": {"name": "Steel Gear"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(Source{DatabasePath: writeDB(t, factoryDB), ItemsPath: items}, nil, nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{Target: "gear"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Plan.Target.Name != "Steel Gear" {
		t.Errorf("Target.Name = %q", res.Plan.Target.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		code errors.Code
	}{
		{"unconfigured", Source{}, errors.ErrCodeInvalidConfig},
		{"missing", Source{DatabasePath: filepath.Join(t.TempDir(), "nope.json")}, errors.ErrCodeFileNotFound},
		{"invalid", Source{DatabasePath: writeDB(t, `{"recipes": 3}`)}, errors.ErrCodeInvalidDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(tt.src, nil, nil, quietLogger())
			_, err := r.Execute(context.Background(), Options{Target: "gear"})
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

type countingHooks struct {
	mu                      sync.Mutex
	loads, builds, balances int
	hits, misses, sets      int
}

func (h *countingHooks) OnLoad(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads++
}

func (h *countingHooks) OnBuild(context.Context, string, int, bool, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.builds++
}

func (h *countingHooks) OnBalance(context.Context, string, int64, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.balances++
}

func (h *countingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *countingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestHooksAreCalled(t *testing.T) {
	h := &countingHooks{}
	observability.SetPlannerHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	fc, _ := cache.NewFileCache(t.TempDir())
	r := newTestRunner(t, fc)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, Options{Target: "gear"}); err != nil {
			t.Fatal(err)
		}
	}

	if h.loads != 1 || h.builds != 1 || h.balances != 1 {
		t.Errorf("loads/builds/balances = %d/%d/%d, want 1/1/1", h.loads, h.builds, h.balances)
	}
	if h.misses != 1 || h.sets != 1 || h.hits != 1 {
		t.Errorf("misses/sets/hits = %d/%d/%d, want 1/1/1", h.misses, h.sets, h.hits)
	}
}
