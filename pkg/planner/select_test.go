package planner

import (
	"testing"

	"github.com/matzehuels/craftplan/pkg/errors"
)

func TestSelectFastest(t *testing.T) {
	pc := newContext(t,
		rb{id: "slow", in: "1 A", out: "1 T", dur: "5"},
		rb{id: "fast1", in: "1 A, 1 B", out: "1 T", dur: "2"},
		rb{id: "fast2", in: "1 C", out: "1 T", dur: "2"},
	)
	sel, issues := Select(Build(pc, "T", BuildOptions{}), Fastest{})

	if len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
	if got := sel["T"].ID; got != "fast1" {
		t.Errorf("selected %s, want fast1 (first of the tied fastest)", got)
	}
}

func TestSelectFewestMaterials(t *testing.T) {
	pc := newContext(t,
		rb{id: "many", in: "1 A, 1 B", out: "1 T", dur: "1"},
		rb{id: "few-slow", in: "4 A", out: "1 T", dur: "9"},
		rb{id: "few-fast", in: "1 C", out: "1 T", dur: "3"},
		rb{id: "catalyst", in: "1 A, 1 K", out: "1 T, 1 K", dur: "3"},
	)
	sel, _ := Select(Build(pc, "T", BuildOptions{}), FewestMaterials{})

	if got := sel["T"].ID; got != "few-fast" {
		t.Errorf("selected %s, want few-fast", got)
	}
}

func TestSelectSkipsZeroDuration(t *testing.T) {
	pc := newContext(t,
		rb{id: "broken", in: "1 A", out: "1 B", dur: "0"},
		rb{id: "ok", in: "1 B", out: "1 C", dur: "1"},
	)
	tree := Build(pc, "C", BuildOptions{})
	sel, issues := Select(tree, Fastest{})

	if _, ok := sel["B"]; ok {
		t.Error("zero-duration recipe was selected")
	}
	if len(issues) != 1 {
		t.Fatalf("len(issues) = %d, want 1", len(issues))
	}
	if issues[0].ItemID != "B" || issues[0].Code != errors.ErrCodeNoValidRecipe {
		t.Errorf("issue = %+v", issues[0])
	}
	if !errors.Is(issues[0].Err(), errors.ErrCodeNoValidRecipe) {
		t.Error("Issue.Err() lost its code")
	}
}

func TestSelectPrefersValidOverInvalid(t *testing.T) {
	pc := newContext(t,
		rb{id: "instant", in: "1 A", out: "1 B", dur: "0"},
		rb{id: "real", in: "1 A", out: "1 B", dur: "4"},
	)
	sel, issues := Select(Build(pc, "B", BuildOptions{}), Fastest{})

	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
	if sel["B"].ID != "real" {
		t.Errorf("selected %s, want real", sel["B"].ID)
	}
}

func TestSelectNilPolicy(t *testing.T) {
	sel, _ := Select(Build(chainABC(t), "C", BuildOptions{}), nil)
	if sel["C"] == nil || sel["B"] == nil {
		t.Error("nil policy should fall back to Fastest")
	}
	if _, ok := sel["A"]; ok {
		t.Error("base material A has a selection")
	}
}

func TestPolicyByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "fastest", false},
		{"fastest", "fastest", false},
		{"FASTEST", "fastest", false},
		{"fewest-materials", "fewest-materials", false},
		{"fewest", "fewest-materials", false},
		{"cheapest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PolicyByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PolicyByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidPolicy) {
					t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidPolicy)
				}
				return
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %s, want %s", p.Name(), tt.want)
			}
		})
	}
}
