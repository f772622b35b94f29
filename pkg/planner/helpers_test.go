package planner

import (
	"strings"
	"testing"

	"github.com/matzehuels/craftplan/pkg/rational"
	"github.com/matzehuels/craftplan/pkg/recipe"
)

// rb builds a recipe with a short notation: "2 A, 1 B" for stacks.
type rb struct {
	id, device string
	in, out    string
	dur        string
}

func parseStacks(t *testing.T, s string) []recipe.Stack {
	t.Helper()
	var out []recipe.Stack
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		if len(fields) != 2 {
			t.Fatalf("bad stack %q", part)
		}
		out = append(out, recipe.Stack{ItemID: fields[1], Name: fields[1], Count: rational.MustParse(fields[0])})
	}
	return out
}

func newContext(t *testing.T, recipes ...rb) *Context {
	t.Helper()
	db := &recipe.Database{Recipes: make(map[string]*recipe.Recipe)}
	for _, r := range recipes {
		dur := recipe.DefaultDuration
		if r.dur != "" {
			dur = rational.MustParse(r.dur)
		}
		device := r.device
		if device == "" {
			device = "dev-" + r.id
		}
		db.Recipes[r.id] = &recipe.Recipe{
			ID:         r.id,
			DeviceID:   device,
			DeviceName: strings.ToUpper(device),
			Materials:  parseStacks(t, r.in),
			Products:   parseStacks(t, r.out),
			Duration:   dur,
		}
		db.Order = append(db.Order, r.id)
	}
	return NewContext(recipe.NewIndex(db, nil), nil)
}

// chainABC is A (base) -> R1 (1 A -> 2 B, 3s) -> B -> R2 (3 B -> 1 C, 6s).
func chainABC(t *testing.T) *Context {
	return newContext(t,
		rb{id: "R1", device: "press", in: "1 A", out: "2 B", dur: "3"},
		rb{id: "R2", device: "asm", in: "3 B", out: "1 C", dur: "6"},
	)
}

func mustEqual(t *testing.T, what string, got rational.Rational, want string) {
	t.Helper()
	if got.String() != want {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}
