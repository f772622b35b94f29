package recipe

import (
	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/rational"
)

// DefaultDuration is used when a recipe omits its manufacturing time.
var DefaultDuration = rational.FromInt(2)

// Stack is a quantity of one item.
type Stack struct {
	ItemID string            `json:"id" yaml:"id"`
	Name   string            `json:"name,omitempty" yaml:"name,omitempty"`
	Count  rational.Rational `json:"count" yaml:"count"`
}

// Recipe is one device's fixed conversion of materials into products.
// Recipes are shared read-only between indexes, trees and plans.
type Recipe struct {
	ID         string            `json:"id" yaml:"id"`
	DeviceID   string            `json:"deviceId" yaml:"deviceId"`
	DeviceName string            `json:"deviceName" yaml:"deviceName"`
	Materials  []Stack           `json:"materials" yaml:"materials"`
	Products   []Stack           `json:"products" yaml:"products"`
	Duration   rational.Rational `json:"manufacturingTime" yaml:"manufacturingTime"`
}

func total(stacks []Stack, item string) rational.Rational {
	sum := rational.Zero
	for _, s := range stacks {
		if s.ItemID == item {
			sum = sum.Add(s.Count)
		}
	}
	return sum
}

// NetOutput returns how many units of item one craft yields after
// subtracting what the same craft consumes. It may be zero or negative.
func (r *Recipe) NetOutput(item string) rational.Rational {
	return total(r.Products, item).Sub(total(r.Materials, item))
}

// HasNetOutput reports whether at least one product has a positive net output.
func (r *Recipe) HasNetOutput() bool {
	for _, p := range r.Products {
		if r.NetOutput(p.ItemID).IsPositive() {
			return true
		}
	}
	return false
}

// NetInputs returns the materials one craft actually consumes, in material
// order, one entry per distinct item. Pass-through items that are returned in
// equal or greater quantity are omitted.
func (r *Recipe) NetInputs() []Stack {
	var out []Stack
	seen := make(map[string]bool, len(r.Materials))
	for _, m := range r.Materials {
		if seen[m.ItemID] {
			continue
		}
		seen[m.ItemID] = true
		if net := r.NetOutput(m.ItemID).Neg(); net.IsPositive() {
			out = append(out, Stack{ItemID: m.ItemID, Name: m.Name, Count: net})
		}
	}
	return out
}

// NetOutputs returns the products one craft yields net of consumption, in
// product order, one entry per distinct item.
func (r *Recipe) NetOutputs() []Stack {
	var out []Stack
	seen := make(map[string]bool, len(r.Products))
	for _, p := range r.Products {
		if seen[p.ItemID] {
			continue
		}
		seen[p.ItemID] = true
		if net := r.NetOutput(p.ItemID); net.IsPositive() {
			out = append(out, Stack{ItemID: p.ItemID, Name: p.Name, Count: net})
		}
	}
	return out
}

// MaterialIDs returns the distinct material item ids in order of appearance.
func (r *Recipe) MaterialIDs() []string {
	var ids []string
	seen := make(map[string]bool, len(r.Materials))
	for _, m := range r.Materials {
		if !seen[m.ItemID] {
			seen[m.ItemID] = true
			ids = append(ids, m.ItemID)
		}
	}
	return ids
}

// ValidateFor checks that r can be used to produce item: the duration must be
// positive and the net output of item must be positive. Failures carry
// [errors.ErrCodeInvalidRecipe].
func (r *Recipe) ValidateFor(item string) error {
	if !r.Duration.IsPositive() {
		return errors.New(errors.ErrCodeInvalidRecipe,
			"recipe %s: manufacturing time must be positive, got %s", r.ID, r.Duration)
	}
	if !r.NetOutput(item).IsPositive() {
		return errors.New(errors.ErrCodeInvalidRecipe,
			"recipe %s: no net output of %s", r.ID, item)
	}
	return nil
}

// ItemName returns the display name recorded for item on any stack of r.
func (r *Recipe) ItemName(item string) string {
	for _, s := range r.Products {
		if s.ItemID == item && s.Name != "" {
			return s.Name
		}
	}
	for _, s := range r.Materials {
		if s.ItemID == item && s.Name != "" {
			return s.Name
		}
	}
	return ""
}
