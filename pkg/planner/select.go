package planner

import (
	"strings"

	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/recipe"
)

// Policy chooses one recipe for an item. Candidates are never empty and have
// already passed [recipe.Recipe.ValidateFor]. Implementations must be
// deterministic.
type Policy interface {
	Name() string
	Choose(item string, candidates []*recipe.Recipe) *recipe.Recipe
}

// Fastest picks the recipe with the shortest manufacturing time. Ties go to
// the earliest candidate.
type Fastest struct{}

func (Fastest) Name() string { return "fastest" }

func (Fastest) Choose(_ string, candidates []*recipe.Recipe) *recipe.Recipe {
	best := candidates[0]
	for _, r := range candidates[1:] {
		if r.Duration.Less(best.Duration) {
			best = r
		}
	}
	return best
}

// FewestMaterials picks the recipe that consumes the fewest distinct items,
// then the shortest manufacturing time, then the earliest candidate.
type FewestMaterials struct{}

func (FewestMaterials) Name() string { return "fewest-materials" }

func (FewestMaterials) Choose(_ string, candidates []*recipe.Recipe) *recipe.Recipe {
	best := candidates[0]
	bestN := len(best.NetInputs())
	for _, r := range candidates[1:] {
		n := len(r.NetInputs())
		if n < bestN || (n == bestN && r.Duration.Less(best.Duration)) {
			best, bestN = r, n
		}
	}
	return best
}

// Policies lists the built-in policy names.
var Policies = []string{Fastest{}.Name(), FewestMaterials{}.Name()}

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = "fastest"

// PolicyByName returns the built-in policy with the given name.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fastest":
		return Fastest{}, nil
	case "fewest-materials", "fewest":
		return FewestMaterials{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidPolicy,
		"unknown policy %q (available: %s)", name, strings.Join(Policies, ", "))
}

// Selection maps item ids to their chosen recipe.
type Selection map[string]*recipe.Recipe

// Issue reports an item that had candidate recipes but none usable. The
// item is planned as a base material.
type Issue struct {
	ItemID   string      `json:"itemId" yaml:"itemId"`
	ItemName string      `json:"itemName" yaml:"itemName"`
	Code     errors.Code `json:"code" yaml:"code"`
	Message  string      `json:"message" yaml:"message"`
}

// Err returns the issue as a coded error.
func (i Issue) Err() error {
	return errors.New(i.Code, "%s", i.Message)
}

// Select chooses one recipe for every item expanded in t. Invalid candidates
// are dropped first; an item with candidates but no valid one, which [Build]
// marks [NoValidRecipe], yields an [Issue] and is left out of the selection.
// A nil policy means [Fastest].
func Select(t *Tree, p Policy) (Selection, []Issue) {
	if p == nil {
		p = Fastest{}
	}

	sel := make(Selection)
	var issues []Issue
	done := make(map[string]bool)

	for _, id := range t.PreOrder() {
		n := t.Node(id)
		if (n.IsBase && n.Reason != NoValidRecipe) || done[n.ItemID] {
			continue
		}
		done[n.ItemID] = true

		var valid []*recipe.Recipe
		var reasons []string
		for _, r := range n.Recipes {
			if err := r.ValidateFor(n.ItemID); err != nil {
				reasons = append(reasons, errors.UserMessage(err))
				continue
			}
			valid = append(valid, r)
		}

		if len(valid) == 0 {
			issues = append(issues, Issue{
				ItemID:   n.ItemID,
				ItemName: n.ItemName,
				Code:     errors.ErrCodeNoValidRecipe,
				Message:  "no valid recipe for " + n.ItemName + ": " + strings.Join(reasons, "; "),
			})
			continue
		}
		sel[n.ItemID] = p.Choose(n.ItemID, valid)
	}
	return sel, issues
}
