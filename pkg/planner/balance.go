package planner

import (
	"math/big"

	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/rational"
	"github.com/matzehuels/craftplan/pkg/recipe"
)

// DefaultTimeBase is the period, in seconds, that rates are expressed against.
var DefaultTimeBase = rational.FromInt(60)

// BalanceOptions configures [Balance].
type BalanceOptions struct {
	TimeBase rational.Rational // seconds per rate period (default: 60)
}

// WithDefaults returns a copy of BalanceOptions with zero values replaced by defaults.
func (o BalanceOptions) WithDefaults() BalanceOptions {
	if o.TimeBase.IsZero() {
		o.TimeBase = DefaultTimeBase
	}
	return o
}

// Stage is one item produced by a bank of identical devices. All rates are
// per time base at the achievable output rate unless named nominal.
type Stage struct {
	ItemID        string
	Recipe        *recipe.Recipe
	NominalCrafts rational.Rational // crafts for one target unit per time base
	Crafts        rational.Rational // crafts the whole bank completes
	PerDevice     rational.Rational // crafts one device can complete
	Devices       int64
	Capacity      rational.Rational // Devices * PerDevice
	Output        rational.Rational // net units of ItemID produced
	Utilization   rational.Rational // Crafts / Capacity, at most 1
	BatchCrafts   *big.Int          // crafts per batch of ScaleFactor time bases
}

// Draw is a base material supplied from outside the plan.
type Draw struct {
	ItemID  string
	Nominal rational.Rational // units for one target unit per time base
	Rate    rational.Rational // units per time base
	Batch   *big.Int          // units per batch of ScaleFactor time bases
}

// Solution is the exact balance for one tree and selection.
type Solution struct {
	TimeBase rational.Rational
	Stages   []Stage // in order of first appearance, target first
	Draws    []Draw  // in order of first appearance

	// Required is the total demand for each item, summed over every path.
	Required map[string]rational.Rational

	// NominalRequired is Required before scaling, for one target unit per
	// time base.
	NominalRequired map[string]rational.Rational

	// Multiplier scales the nominal demand of one target unit per time base
	// up to what the integer device counts sustain.
	Multiplier rational.Rational

	// Rate is the achievable target output per time base.
	Rate rational.Rational

	// ScaleFactor is the smallest number of time bases after which every
	// craft count and draw is a whole number.
	ScaleFactor *big.Int

	// Limiting is the item of the stage that runs at full utilization and
	// bounds Rate. Empty when there are no stages.
	Limiting string
}

// Stage returns the stage producing item.
func (b *Solution) Stage(item string) (Stage, bool) {
	for _, s := range b.Stages {
		if s.ItemID == item {
			return s, true
		}
	}
	return Stage{}, false
}

// Balance computes exact craft rates, device counts and base material draws
// for t using the recipes in sel.
//
// The target starts with a nominal demand of one unit per time base. Demand
// flows from each node to its children: a node with a selected recipe needs
// demand / net output crafts, and each net input of that recipe receives
// crafts * count. Nodes without a selection, and inputs with no matching
// child, become base material draws. Demand for the same item is summed
// across every path.
//
// Each stage then gets ceil(crafts / per-device rate) devices. Since every
// count is rounded up independently, the whole plan is scaled by the
// smallest capacity-to-demand ratio so that the tightest stage runs at full
// utilization. The result is the achievable rate, and [Solution.ScaleFactor]
// is the least common denominator that turns every scaled rate into an
// integer batch. The unscaled values stay available as NominalCrafts,
// Nominal and NominalRequired.
//
// A selected recipe with a non-positive duration or no net output of its
// item returns an INVALID_RECIPE error.
func Balance(t *Tree, sel Selection, opts BalanceOptions) (*Solution, error) {
	opts = opts.WithDefaults()
	if !opts.TimeBase.IsPositive() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "time base must be positive, got %s", opts.TimeBase)
	}

	w := &walker{
		tree:     t,
		sel:      sel,
		required: make(map[string]rational.Rational),
		crafts:   make(map[string]rational.Rational),
		draws:    make(map[string]rational.Rational),
		recipes:  make(map[string]*recipe.Recipe),
	}
	if err := w.visit(t.Root(), rational.One); err != nil {
		return nil, err
	}

	b := &Solution{
		TimeBase:        opts.TimeBase,
		Required:        make(map[string]rational.Rational, len(w.required)),
		NominalRequired: make(map[string]rational.Rational, len(w.required)),
		Multiplier:      rational.One,
	}

	type sized struct {
		perDevice rational.Rational
		devices   *big.Int
		capacity  rational.Rational
		ratio     rational.Rational
	}
	sizes := make([]sized, len(w.stageOrder))

	for i, item := range w.stageOrder {
		r := w.recipes[item]
		crafts := w.crafts[item]

		perDevice, _ := opts.TimeBase.Div(r.Duration)
		need, _ := crafts.Div(perDevice)
		devices := need.Ceil()
		capacity := perDevice.MulInt(devices)
		ratio, _ := capacity.Div(crafts)
		sizes[i] = sized{perDevice: perDevice, devices: devices, capacity: capacity, ratio: ratio}

		if i == 0 {
			b.Multiplier = ratio
		}
		b.Multiplier = rational.Min(b.Multiplier, ratio)
	}
	for i, item := range w.stageOrder {
		if sizes[i].ratio.Equal(b.Multiplier) {
			b.Limiting = item
			break
		}
	}

	k := b.Multiplier
	b.Rate = k

	scaled := []rational.Rational{b.Rate}
	for i, item := range w.stageOrder {
		r := w.recipes[item]
		if !sizes[i].devices.IsInt64() {
			return nil, errors.New(errors.ErrCodeInternal, "device count for %s overflows: %s", item, sizes[i].devices)
		}
		nominal := w.crafts[item]
		crafts := nominal.Mul(k)
		util, _ := crafts.Div(sizes[i].capacity)

		b.Stages = append(b.Stages, Stage{
			ItemID:        item,
			Recipe:        r,
			NominalCrafts: nominal,
			Crafts:        crafts,
			PerDevice:     sizes[i].perDevice,
			Devices:       sizes[i].devices.Int64(),
			Capacity:      sizes[i].capacity,
			Output:        crafts.Mul(r.NetOutput(item)),
			Utilization:   util,
		})
		scaled = append(scaled, crafts)
	}
	for _, item := range w.drawOrder {
		nominal := w.draws[item]
		rate := nominal.Mul(k)
		b.Draws = append(b.Draws, Draw{ItemID: item, Nominal: nominal, Rate: rate})
		scaled = append(scaled, rate)
	}
	for item, req := range w.required {
		b.NominalRequired[item] = req
		b.Required[item] = req.Mul(k)
	}

	b.ScaleFactor = rational.DenominatorLCM(scaled...)
	for i := range b.Stages {
		b.Stages[i].BatchCrafts = wholeTimes(b.Stages[i].Crafts, b.ScaleFactor)
	}
	for i := range b.Draws {
		b.Draws[i].Batch = wholeTimes(b.Draws[i].Rate, b.ScaleFactor)
	}
	return b, nil
}

// wholeTimes returns x*n, which the caller guarantees to be an integer.
func wholeTimes(x rational.Rational, n *big.Int) *big.Int {
	return x.MulInt(n).Num()
}

type walker struct {
	tree *Tree
	sel  Selection

	required map[string]rational.Rational
	crafts   map[string]rational.Rational
	draws    map[string]rational.Rational
	recipes  map[string]*recipe.Recipe

	stageOrder []string
	drawOrder  []string
}

func (w *walker) visit(id NodeID, demand rational.Rational) error {
	if !demand.IsPositive() {
		return nil
	}

	n := w.tree.Node(id)
	w.required[n.ItemID] = w.required[n.ItemID].Add(demand)

	var r *recipe.Recipe
	if !n.IsBase {
		r = w.sel[n.ItemID]
	}
	if r == nil {
		w.draw(n.ItemID, demand)
		return nil
	}

	if !r.Duration.IsPositive() {
		return errors.New(errors.ErrCodeInvalidRecipe,
			"recipe %s for %s: manufacturing time must be positive, got %s", r.ID, n.ItemID, r.Duration)
	}
	out := r.NetOutput(n.ItemID)
	if !out.IsPositive() {
		return errors.New(errors.ErrCodeInvalidRecipe,
			"recipe %s does not produce %s", r.ID, n.ItemID)
	}

	if _, ok := w.recipes[n.ItemID]; !ok {
		w.recipes[n.ItemID] = r
		w.stageOrder = append(w.stageOrder, n.ItemID)
	}

	crafts, _ := demand.Div(out)
	for _, in := range r.NetInputs() {
		contrib := crafts.Mul(in.Count)
		if child, ok := w.child(n, in.ItemID); ok {
			if err := w.visit(child, contrib); err != nil {
				return err
			}
			continue
		}
		w.required[in.ItemID] = w.required[in.ItemID].Add(contrib)
		w.draw(in.ItemID, contrib)
	}

	w.crafts[n.ItemID] = w.crafts[n.ItemID].Add(crafts)
	return nil
}

func (w *walker) child(n Node, item string) (NodeID, bool) {
	for _, c := range n.Children {
		if w.tree.Node(c).ItemID == item {
			return c, true
		}
	}
	return NoNode, false
}

func (w *walker) draw(item string, amount rational.Rational) {
	if _, ok := w.draws[item]; !ok {
		w.drawOrder = append(w.drawOrder, item)
	}
	w.draws[item] = w.draws[item].Add(amount)
}
