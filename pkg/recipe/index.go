package recipe

import (
	"maps"
	"slices"
)

// Index is the read-only recipe lookup used by the planner. It is safe for
// concurrent use because nothing mutates it after [NewIndex] returns.
type Index struct {
	recipes   map[string]*Recipe
	all       []*Recipe // every non-ignored recipe, by id
	producers map[string][]*Recipe
	consumers map[string][]*Recipe
	byDevice  map[string][]*Recipe
	names     map[string]string
	ignored   int
}

// NewIndex builds an Index from db, excluding every recipe that runs on one
// of ignoredDevices. Recipes without any net output are kept for cycle
// analysis but are left out of the item and device lookups.
//
// Lookup order follows the database's own index sections. When a section is
// missing it is derived from the recipes in document order.
func NewIndex(db *Database, ignoredDevices []string) *Index {
	skip := make(map[string]bool, len(ignoredDevices))
	for _, d := range ignoredDevices {
		skip[d] = true
	}

	idx := &Index{
		recipes:   make(map[string]*Recipe),
		producers: make(map[string][]*Recipe),
		consumers: make(map[string][]*Recipe),
		byDevice:  make(map[string][]*Recipe),
		names:     make(map[string]string),
	}
	if db == nil {
		return idx
	}

	order := db.Order
	if len(order) != len(db.Recipes) {
		order = sortedKeys(db.Recipes)
	}

	for _, id := range order {
		r := db.Recipes[id]
		if r == nil {
			continue
		}
		if skip[r.DeviceID] {
			idx.ignored++
			continue
		}
		idx.recipes[id] = r
		for _, stacks := range [][]Stack{r.Products, r.Materials} {
			for _, s := range stacks {
				if s.Name != "" && idx.names[s.ItemID] == "" {
					idx.names[s.ItemID] = s.Name
				}
			}
		}
	}
	idx.all = make([]*Recipe, 0, len(idx.recipes))
	for _, id := range sortedKeys(idx.recipes) {
		idx.all = append(idx.all, idx.recipes[id])
	}

	idx.populate(db.AsProducts, idx.producers, order, func(r *Recipe) []string { return stackIDs(r.Products) })
	idx.populate(db.AsMaterials, idx.consumers, order, func(r *Recipe) []string { return stackIDs(r.Materials) })
	idx.populate(db.ByDevice, idx.byDevice, order, func(r *Recipe) []string { return []string{r.DeviceID} })
	return idx
}

func (idx *Index) populate(section map[string][]string, target map[string][]*Recipe, order []string, keys func(*Recipe) []string) {
	if section == nil {
		section = make(map[string][]string)
		for _, id := range order {
			r := idx.recipes[id]
			if r == nil {
				continue
			}
			for _, k := range keys(r) {
				if !slices.Contains(section[k], id) {
					section[k] = append(section[k], id)
				}
			}
		}
	}

	for key, ids := range section {
		var list []*Recipe
		for _, id := range ids {
			r := idx.recipes[id]
			if r == nil || !r.HasNetOutput() {
				continue
			}
			list = append(list, r)
		}
		if len(list) > 0 {
			target[key] = list
		}
	}
}

// Producers returns the recipes that list item as a product.
func (idx *Index) Producers(item string) []*Recipe { return idx.producers[item] }

// Consumers returns the recipes that list item as a material.
func (idx *Index) Consumers(item string) []*Recipe { return idx.consumers[item] }

// ByDevice returns the recipes that run on device.
func (idx *Index) ByDevice(device string) []*Recipe { return idx.byDevice[device] }

// Recipe returns the recipe with the given id.
func (idx *Index) Recipe(id string) (*Recipe, bool) {
	r, ok := idx.recipes[id]
	return r, ok
}

// Recipes returns every indexed recipe ordered by id, including recipes
// without net output.
func (idx *Index) Recipes() []*Recipe { return idx.all }

// Len returns the number of indexed recipes.
func (idx *Index) Len() int { return len(idx.all) }

// Ignored returns how many recipes were dropped because of ignored devices.
func (idx *Index) Ignored() int { return idx.ignored }

// Products returns the sorted ids of every item with at least one producer.
func (idx *Index) Products() []string { return sortedKeys(idx.producers) }

// ItemName returns the name recorded for item in the recipe stacks.
func (idx *Index) ItemName(item string) string { return idx.names[item] }

func stackIDs(stacks []Stack) []string {
	ids := make([]string, 0, len(stacks))
	for _, s := range stacks {
		ids = append(ids, s.ItemID)
	}
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
