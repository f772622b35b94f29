package planner

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftplan/pkg/recipe"
)

const (
	DefaultMaxDepth = 50   // Default maximum expansion depth
	DefaultMaxNodes = 5000 // Default maximum tree size
)

// NodeID addresses a node inside its [Tree].
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// BaseReason explains why a node was not expanded.
type BaseReason string

const (
	NotBase       BaseReason = ""
	Designated    BaseReason = "designated"      // listed by the caller
	InCycle       BaseReason = "cycle"           // member of an unbreakable cycle
	NoRecipe      BaseReason = "no-recipe"       // nothing produces it
	NoValidRecipe BaseReason = "no-valid-recipe" // every producer fails ValidateFor
	Revisit       BaseReason = "revisit"         // already an ancestor on this path
	DepthLimited  BaseReason = "depth-limit"     // MaxDepth reached
	NodeLimited   BaseReason = "node-limit"      // MaxNodes reached
)

// Node is one item's position in a dependency tree. The same item may occupy
// several nodes when it is needed along different paths.
type Node struct {
	ID       NodeID           `json:"id"`
	ItemID   string           `json:"itemId"`
	ItemName string           `json:"itemName"`
	IsBase   bool             `json:"isBase"`
	Reason   BaseReason       `json:"reason,omitempty"`
	Recipes  []*recipe.Recipe `json:"-"`
	Parent   NodeID           `json:"parent"`
	Children []NodeID         `json:"children,omitempty"`
	Depth    int              `json:"depth"`
}

// Tree is an arena of nodes. Node 0 is the root. A Tree is immutable once
// [Build] returns.
type Tree struct {
	nodes     []Node
	truncated bool
}

// Root returns the root node id.
func (t *Tree) Root() NodeID { return 0 }

// Node returns the node with the given id. The returned Children slice must
// not be modified.
func (t *Tree) Node(id NodeID) Node { return t.nodes[id] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Target returns the root item id.
func (t *Tree) Target() string { return t.nodes[0].ItemID }

// Truncated reports whether the depth or node limit cut off any branch.
func (t *Tree) Truncated() bool { return t.truncated }

// PreOrder returns node ids with every parent before its children.
func (t *Tree) PreOrder() []NodeID {
	out := make([]NodeID, 0, len(t.nodes))
	var walk func(NodeID)
	walk = func(id NodeID) {
		out = append(out, id)
		for _, c := range t.nodes[id].Children {
			walk(c)
		}
	}
	walk(t.Root())
	return out
}

// PostOrder returns node ids with every child before its parent.
func (t *Tree) PostOrder() []NodeID {
	out := make([]NodeID, 0, len(t.nodes))
	var walk func(NodeID)
	walk = func(id NodeID) {
		for _, c := range t.nodes[id].Children {
			walk(c)
		}
		out = append(out, id)
	}
	walk(t.Root())
	return out
}

// Flatten returns the first node of every distinct item in pre-order. It is
// the list a base-material picker shows.
func (t *Tree) Flatten() []Node {
	seen := make(map[string]bool)
	var out []Node
	for _, id := range t.PreOrder() {
		n := t.nodes[id]
		if seen[n.ItemID] {
			continue
		}
		seen[n.ItemID] = true
		out = append(out, n)
	}
	return out
}

// Nodes returns a copy of the arena in id order.
func (t *Tree) Nodes() []Node {
	return append([]Node(nil), t.nodes...)
}

// BuildOptions configures [Build].
type BuildOptions struct {
	BaseMaterials []string    // items never expanded
	MaxDepth      int         // maximum depth (default: 50)
	MaxNodes      int         // maximum tree size (default: 5000)
	Logger        *log.Logger // receives truncation warnings (default: discard)
}

// WithDefaults returns a copy of BuildOptions with zero values replaced by defaults.
func (o BuildOptions) WithDefaults() BuildOptions {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}

// Build expands target into a dependency tree.
//
// A node stays unexpanded when its item is a designated base material, is in
// an unbreakable cycle, is already an ancestor on the current path, has no
// producing recipe that passes [recipe.Recipe.ValidateFor], or when the depth
// or node limit is reached. Limits mark
// the tree truncated and log a warning; none of these conditions is an error.
//
// Every node keeps all candidate recipes. An expanded node gets one child per
// distinct material id across its valid candidates, in recipe then material
// order. Each
// branch tracks its own ancestor set, so siblings never suppress each other.
func Build(pc *Context, target string, opts BuildOptions) *Tree {
	opts = opts.WithDefaults()
	b := &builder{
		pc:   pc,
		opts: opts,
		base: make(map[string]bool, len(opts.BaseMaterials)),
		tree: &Tree{},
	}
	for _, id := range opts.BaseMaterials {
		b.base[id] = true
	}
	b.expand(target, NoNode, 0, map[string]bool{})
	return b.tree
}

type builder struct {
	pc   *Context
	opts BuildOptions
	base map[string]bool
	tree *Tree
}

func (b *builder) expand(item string, parent NodeID, depth int, path map[string]bool) NodeID {
	id := NodeID(len(b.tree.nodes))
	recipes := b.pc.Index.Producers(item)
	b.tree.nodes = append(b.tree.nodes, Node{
		ID:       id,
		ItemID:   item,
		ItemName: b.pc.ItemName(item),
		Recipes:  recipes,
		Parent:   parent,
		Depth:    depth,
	})

	valid := usable(item, recipes)
	if reason := b.classify(item, depth, path, recipes, valid); reason != NotBase {
		b.tree.nodes[id].IsBase = true
		b.tree.nodes[id].Reason = reason
		return id
	}

	next := make(map[string]bool, len(path)+1)
	for k := range path {
		next[k] = true
	}
	next[item] = true

	var children []NodeID
	seen := make(map[string]bool)
	for _, r := range valid {
		for _, m := range r.MaterialIDs() {
			if seen[m] {
				continue
			}
			seen[m] = true
			children = append(children, b.expand(m, id, depth+1, next))
		}
	}
	b.tree.nodes[id].Children = children
	return id
}

func (b *builder) classify(item string, depth int, path map[string]bool, recipes, valid []*recipe.Recipe) BaseReason {
	switch {
	case b.base[item]:
		return Designated
	case b.pc.Cycles.Contains(item):
		return InCycle
	case path[item]:
		return Revisit
	case len(recipes) == 0:
		return NoRecipe
	case len(valid) == 0:
		return NoValidRecipe
	case depth >= b.opts.MaxDepth:
		b.tree.truncated = true
		b.opts.Logger.Warn("max depth reached, treating as base", "item", item, "depth", depth)
		return DepthLimited
	case len(b.tree.nodes) >= b.opts.MaxNodes:
		b.tree.truncated = true
		b.opts.Logger.Warn("max nodes reached, treating as base", "item", item, "nodes", len(b.tree.nodes))
		return NodeLimited
	}
	return NotBase
}

func usable(item string, recipes []*recipe.Recipe) []*recipe.Recipe {
	var out []*recipe.Recipe
	for _, r := range recipes {
		if r.ValidateFor(item) == nil {
			out = append(out, r)
		}
	}
	return out
}
