package recipe

import (
	"slices"
)

// CycleGroup is a set of items that can only be made from each other.
type CycleGroup struct {
	ID    int      `json:"id"`
	Items []string `json:"items"`
}

// CycleGroups records every unbreakable cycle found in an [Index]. The zero
// value and nil are valid and contain no groups.
type CycleGroups struct {
	groups []CycleGroup
	byItem map[string]int

	// Broken lists cyclic components that were discarded because at least one
	// member can be made from outside the component.
	Broken [][]string
}

// Contains reports whether item belongs to an unbreakable cycle.
func (c *CycleGroups) Contains(item string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byItem[item]
	return ok
}

// GroupOf returns the group item belongs to.
func (c *CycleGroups) GroupOf(item string) (CycleGroup, bool) {
	if c == nil {
		return CycleGroup{}, false
	}
	i, ok := c.byItem[item]
	if !ok {
		return CycleGroup{}, false
	}
	return c.groups[i], true
}

// Groups returns all groups in discovery order.
func (c *CycleGroups) Groups() []CycleGroup {
	if c == nil {
		return nil
	}
	return c.groups
}

// Len returns the number of groups.
func (c *CycleGroups) Len() int {
	if c == nil {
		return 0
	}
	return len(c.groups)
}

// DetectCycles finds the unbreakable cycles of idx.
//
// The graph has an edge from every product to every material of each
// recipe. A strongly connected component with more than one member, or a
// single member with a self loop, is cyclic. A cyclic component is kept only
// if no member has a producing recipe whose materials all lie outside the
// component; otherwise it can be entered from raw materials and is recorded
// in [CycleGroups.Broken] instead.
//
// Vertices and edges are visited in sorted order so the result is
// deterministic for a given index.
func DetectCycles(idx *Index) *CycleGroups {
	out := &CycleGroups{byItem: make(map[string]int)}
	if idx == nil {
		return out
	}

	adj := adjacency(idx.Recipes())
	for _, comp := range tarjan(adj) {
		if len(comp) == 1 && !slices.Contains(adj[comp[0]], comp[0]) {
			continue
		}
		slices.Sort(comp)

		if enterable(idx, comp) {
			out.Broken = append(out.Broken, comp)
			continue
		}

		id := len(out.groups)
		out.groups = append(out.groups, CycleGroup{ID: id, Items: comp})
		for _, item := range comp {
			out.byItem[item] = id
		}
	}
	return out
}

func adjacency(recipes []*Recipe) map[string][]string {
	adj := make(map[string][]string)
	for _, r := range recipes {
		for _, p := range r.Products {
			if _, ok := adj[p.ItemID]; !ok {
				adj[p.ItemID] = nil
			}
			for _, m := range r.Materials {
				if _, ok := adj[m.ItemID]; !ok {
					adj[m.ItemID] = nil
				}
				if !slices.Contains(adj[p.ItemID], m.ItemID) {
					adj[p.ItemID] = append(adj[p.ItemID], m.ItemID)
				}
			}
		}
	}
	for v := range adj {
		slices.Sort(adj[v])
	}
	return adj
}

func enterable(idx *Index, comp []string) bool {
	for _, item := range comp {
		for _, r := range idx.Producers(item) {
			outside := true
			for _, m := range r.Materials {
				if _, found := slices.BinarySearch(comp, m.ItemID); found {
					outside = false
					break
				}
			}
			if outside {
				return true
			}
		}
	}
	return false
}

// tarjan returns the strongly connected components of adj.
func tarjan(adj map[string][]string) [][]string {
	var (
		next    int
		stack   []string
		onStack = make(map[string]bool)
		index   = make(map[string]int)
		low     = make(map[string]int)
		comps   [][]string
	)

	var connect func(v string)
	connect = func(v string) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, seen := index[w]; !seen {
				connect(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var comp []string
		for {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[x] = false
			comp = append(comp, x)
			if x == v {
				break
			}
		}
		comps = append(comps, comp)
	}

	for _, v := range sortedKeys(adj) {
		if _, seen := index[v]; !seen {
			connect(v)
		}
	}
	return comps
}
