package planner

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestBuildChain(t *testing.T) {
	pc := chainABC(t)
	tree := Build(pc, "C", BuildOptions{})

	if tree.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tree.Len())
	}
	root := tree.Node(tree.Root())
	if root.ItemID != "C" || root.IsBase || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	b := tree.Node(root.Children[0])
	if b.ItemID != "B" || b.IsBase || b.Parent != root.ID || b.Depth != 1 {
		t.Errorf("B = %+v", b)
	}
	a := tree.Node(b.Children[0])
	if a.ItemID != "A" || !a.IsBase || a.Reason != NoRecipe || len(a.Children) != 0 {
		t.Errorf("A = %+v", a)
	}
	if tree.Truncated() {
		t.Error("tree should not be truncated")
	}
}

func TestBuildReasons(t *testing.T) {
	pc := newContext(t,
		rb{id: "top", in: "1 X, 1 M, 1 P", out: "1 T"},
		rb{id: "x", in: "1 Y", out: "1 X"},
		rb{id: "y", in: "1 X", out: "1 Y"},
		rb{id: "m", in: "1 ore", out: "1 M"},
		rb{id: "p", in: "1 Q", out: "1 P"},
		rb{id: "q", in: "1 P", out: "1 Q"},
		rb{id: "q2", in: "1 dust", out: "1 Q"},
	)

	tree := Build(pc, "T", BuildOptions{BaseMaterials: []string{"M"}})

	reasons := make(map[string]BaseReason)
	for _, n := range tree.Nodes() {
		if n.IsBase {
			if len(n.Children) != 0 {
				t.Errorf("base node %s has children", n.ItemID)
			}
			if _, ok := reasons[n.ItemID]; !ok {
				reasons[n.ItemID] = n.Reason
			}
		}
	}

	want := map[string]BaseReason{
		"X":    InCycle,
		"M":    Designated,
		"P":    Revisit,
		"dust": NoRecipe,
	}
	for item, reason := range want {
		if reasons[item] != reason {
			t.Errorf("reason(%s) = %q, want %q", item, reasons[item], reason)
		}
	}
	if _, ok := reasons["ore"]; ok {
		t.Error("designated base M should not be expanded into ore")
	}
}

func TestBuildNoValidRecipe(t *testing.T) {
	pc := newContext(t,
		rb{id: "broken", in: "1 A", out: "1 B", dur: "0"},
		rb{id: "ok", in: "1 B", out: "1 C", dur: "1"},
	)
	tree := Build(pc, "C", BuildOptions{})

	if tree.Len() != 2 {
		t.Fatalf("Len() = %d, want 2: A must not appear", tree.Len())
	}
	b := tree.Node(tree.Node(tree.Root()).Children[0])
	if b.ItemID != "B" || !b.IsBase || b.Reason != NoValidRecipe || len(b.Children) != 0 {
		t.Errorf("B = %+v, want an unexpanded %s base", b, NoValidRecipe)
	}
	if len(b.Recipes) != 1 {
		t.Errorf("B keeps %d candidates, want 1", len(b.Recipes))
	}

	_, issues := Select(tree, Fastest{})
	if len(issues) != 1 || issues[0].ItemID != "B" {
		t.Errorf("issues = %+v, want one for B", issues)
	}
}

func TestBuildTwoItemCycleTerminates(t *testing.T) {
	pc := newContext(t,
		rb{id: "x", in: "1 Y", out: "1 X"},
		rb{id: "y", in: "1 X", out: "1 Y"},
	)

	for _, target := range []string{"X", "Y"} {
		tree := Build(pc, target, BuildOptions{})
		if tree.Len() != 1 {
			t.Errorf("Build(%s) has %d nodes, want 1", target, tree.Len())
		}
		if n := tree.Node(tree.Root()); !n.IsBase || n.Reason != InCycle {
			t.Errorf("Build(%s) root = %+v, want cycle base", target, n)
		}
	}
}

func TestBuildDeduplicatesMaterials(t *testing.T) {
	pc := newContext(t,
		rb{id: "r1", in: "1 A, 1 B", out: "1 T", dur: "2"},
		rb{id: "r2", in: "2 B, 1 C", out: "1 T", dur: "1"},
	)
	tree := Build(pc, "T", BuildOptions{})

	root := tree.Node(tree.Root())
	var got []string
	for _, c := range root.Children {
		got = append(got, tree.Node(c).ItemID)
	}
	if strings.Join(got, ",") != "A,B,C" {
		t.Errorf("children = %v, want [A B C]", got)
	}
	if len(root.Recipes) != 2 {
		t.Errorf("root keeps %d recipes, want 2", len(root.Recipes))
	}
}

func TestBuildDiamondKeepsSeparateNodes(t *testing.T) {
	pc := newContext(t,
		rb{id: "d", in: "1 B, 1 C", out: "1 D"},
		rb{id: "b", in: "1 A", out: "1 B"},
		rb{id: "c", in: "1 A", out: "1 C"},
	)
	tree := Build(pc, "D", BuildOptions{})

	count := 0
	for _, n := range tree.Nodes() {
		if n.ItemID == "A" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("A appears at %d positions, want 2", count)
	}

	var flat []string
	for _, n := range tree.Flatten() {
		flat = append(flat, n.ItemID)
	}
	if strings.Join(flat, ",") != "D,B,A,C" {
		t.Errorf("Flatten() = %v, want [D B A C]", flat)
	}
}

func TestBuildDepthLimit(t *testing.T) {
	pc := chainABC(t)
	var buf bytes.Buffer
	logger := log.New(&buf)

	tree := Build(pc, "C", BuildOptions{MaxDepth: 1, Logger: logger})

	if !tree.Truncated() {
		t.Error("Truncated() = false, want true")
	}
	b := tree.Node(tree.Node(tree.Root()).Children[0])
	if !b.IsBase || b.Reason != DepthLimited {
		t.Errorf("B = %+v, want depth-limited base", b)
	}
	if !strings.Contains(buf.String(), "max depth") {
		t.Errorf("expected a depth warning, got %q", buf.String())
	}
}

func TestBuildNodeLimit(t *testing.T) {
	pc := newContext(t,
		rb{id: "t", in: "1 A, 1 B, 1 C", out: "1 T"},
		rb{id: "a", in: "1 ore", out: "1 A"},
		rb{id: "b", in: "1 ore", out: "1 B"},
		rb{id: "c", in: "1 ore", out: "1 C"},
	)
	tree := Build(pc, "T", BuildOptions{MaxNodes: 3})

	if !tree.Truncated() {
		t.Fatal("Truncated() = false, want true")
	}
	limited := 0
	for _, n := range tree.Nodes() {
		if n.Reason == NodeLimited {
			limited++
		}
	}
	if limited == 0 {
		t.Error("no node was cut by the node limit")
	}
}

func TestBuildDeterministic(t *testing.T) {
	pc := newContext(t,
		rb{id: "d", in: "1 B, 2 C", out: "1 D"},
		rb{id: "b", in: "1 A, 1 E", out: "1 B"},
		rb{id: "c", in: "1 A", out: "1 C"},
		rb{id: "c2", in: "3 E", out: "2 C", dur: "1"},
	)
	opts := BuildOptions{BaseMaterials: []string{"E"}}

	first := Build(pc, "D", opts)
	second := Build(pc, "D", opts)
	if !reflect.DeepEqual(first.Nodes(), second.Nodes()) {
		t.Error("two builds with identical inputs differ")
	}
}

func TestTreeOrders(t *testing.T) {
	tree := Build(chainABC(t), "C", BuildOptions{})

	ids := func(order []NodeID) string {
		var s []string
		for _, id := range order {
			s = append(s, tree.Node(id).ItemID)
		}
		return strings.Join(s, ",")
	}
	if got := ids(tree.PreOrder()); got != "C,B,A" {
		t.Errorf("PreOrder = %s", got)
	}
	if got := ids(tree.PostOrder()); got != "A,B,C" {
		t.Errorf("PostOrder = %s", got)
	}
}

func TestBuildOptionsWithDefaults(t *testing.T) {
	opts := BuildOptions{MaxDepth: 7}.WithDefaults()
	if opts.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", opts.MaxDepth)
	}
	if opts.MaxNodes != DefaultMaxNodes {
		t.Errorf("MaxNodes = %d, want %d", opts.MaxNodes, DefaultMaxNodes)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}
