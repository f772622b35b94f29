package planner

import (
	"github.com/matzehuels/craftplan/pkg/recipe"
)

// Context is the read-only planning state shared by every plan computed
// against one recipe database.
type Context struct {
	Index  *recipe.Index
	Cycles *recipe.CycleGroups
	Items  recipe.Items
}

// NewContext builds a Context for idx, detecting its cycle groups once.
// items may be nil.
func NewContext(idx *recipe.Index, items recipe.Items) *Context {
	if idx == nil {
		idx = recipe.NewIndex(nil, nil)
	}
	return &Context{
		Index:  idx,
		Cycles: recipe.DetectCycles(idx),
		Items:  items,
	}
}

// ItemName returns the display name for id: the item lookup first, then the
// names recorded on recipe stacks, then the id itself.
func (c *Context) ItemName(id string) string {
	if name := c.Items.Name(id); name != "" {
		return name
	}
	if name := c.Index.ItemName(id); name != "" {
		return name
	}
	return id
}
