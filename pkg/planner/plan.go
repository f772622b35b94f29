package planner

import (
	"math/big"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/craftplan/pkg/rational"
)

// Binding endpoints.
const (
	Warehouse = "warehouse" // base material supply
	Output    = "output"    // final delivery of the target
	Surplus   = "surplus"   // byproducts nobody consumes
)

// BindingKind says where an input comes from or an output goes.
type BindingKind string

const (
	FromWarehouse BindingKind = "warehouse"
	FromDevice    BindingKind = "device"
	ToOutput      BindingKind = "output"
	ToDevice      BindingKind = "device"
	ToSurplus     BindingKind = "surplus"
)

// Binding connects one device input or output to its counterpart. Stage is
// the item id of the other device bank for device bindings.
type Binding struct {
	ItemID    string            `json:"itemId" yaml:"itemId"`
	Kind      BindingKind       `json:"kind" yaml:"kind"`
	Stage     string            `json:"stage,omitempty" yaml:"stage,omitempty"`
	Rate      rational.Rational `json:"rate" yaml:"rate"`
	PerMinute float64           `json:"perMinute" yaml:"perMinute"`
}

// DeviceConfig is one row of a plan: a bank of identical devices running
// one recipe for one item. ProductionRate is the crafts the bank can
// complete per time base; OutputRate is the net units of ItemID it
// actually delivers.
type DeviceConfig struct {
	ItemID         string            `json:"itemId" yaml:"itemId"`
	ItemName       string            `json:"itemName" yaml:"itemName"`
	RecipeID       string            `json:"recipeId" yaml:"recipeId"`
	DeviceID       string            `json:"deviceId" yaml:"deviceId"`
	DeviceName     string            `json:"deviceName" yaml:"deviceName"`
	Count          int64             `json:"count" yaml:"count"`
	Duration       rational.Rational `json:"manufacturingTime" yaml:"manufacturingTime"`
	NominalCrafts  rational.Rational `json:"nominalCrafts" yaml:"nominalCrafts"`
	Crafts         rational.Rational `json:"crafts" yaml:"crafts"`
	BatchCrafts    *big.Int          `json:"batchCrafts" yaml:"batchCrafts"`
	ProductionRate rational.Rational `json:"productionRate" yaml:"productionRate"`
	OutputRate     rational.Rational `json:"outputRate" yaml:"outputRate"`
	Utilization    rational.Rational `json:"utilization" yaml:"utilization"`
	Inputs         []Binding         `json:"inputs" yaml:"inputs"`
	Outputs        []Binding         `json:"outputs" yaml:"outputs"`

	PerSecond          float64 `json:"perSecond" yaml:"perSecond"`
	PerMinute          float64 `json:"perMinute" yaml:"perMinute"`
	OutputPerMinute    float64 `json:"outputPerMinute" yaml:"outputPerMinute"`
	UtilizationPercent float64 `json:"utilizationPercent" yaml:"utilizationPercent"`
}

// IsFinal reports whether the device delivers the plan's target.
func (d DeviceConfig) IsFinal() bool {
	for _, o := range d.Outputs {
		if o.Kind == ToOutput {
			return true
		}
	}
	return false
}

// BaseDraw is a base material the plan consumes from the warehouse.
type BaseDraw struct {
	ItemID    string            `json:"id" yaml:"id"`
	Name      string            `json:"name" yaml:"name"`
	Rate      rational.Rational `json:"requiredRate" yaml:"requiredRate"`
	Batch     *big.Int          `json:"batch" yaml:"batch"`
	PerSecond float64           `json:"perSecond" yaml:"perSecond"`
	PerMinute float64           `json:"perMinute" yaml:"perMinute"`
}

// Flow is one item stream between two endpoints. From and To are stage item
// ids or one of [Warehouse], [Output] and [Surplus].
type Flow struct {
	From      string            `json:"from" yaml:"from"`
	To        string            `json:"to" yaml:"to"`
	ItemID    string            `json:"itemId" yaml:"itemId"`
	ItemName  string            `json:"itemName" yaml:"itemName"`
	Rate      rational.Rational `json:"rate" yaml:"rate"`
	PerMinute float64           `json:"perMinute" yaml:"perMinute"`
}

// LimitingStage is the stage running at full utilization.
type LimitingStage struct {
	ItemID     string            `json:"itemId" yaml:"itemId"`
	ItemName   string            `json:"itemName" yaml:"itemName"`
	DeviceName string            `json:"deviceName" yaml:"deviceName"`
	Rate       rational.Rational `json:"rate" yaml:"rate"`
	PerMinute  float64           `json:"perMinute" yaml:"perMinute"`
}

// ItemRef names an item.
type ItemRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ProductionPlan is the complete result for one target. Exact fields are
// authoritative; the float fields are rounded copies for display.
type ProductionPlan struct {
	ID            string            `json:"id,omitempty" yaml:"id,omitempty"`
	Target        ItemRef           `json:"targetProduct" yaml:"targetProduct"`
	Policy        string            `json:"policy" yaml:"policy"`
	TimeBase      rational.Rational `json:"timeBase" yaml:"timeBase"`
	Devices       []DeviceConfig    `json:"devices" yaml:"devices"`
	TotalDevices  int64             `json:"totalDeviceCount" yaml:"totalDeviceCount"`
	BaseMaterials []BaseDraw        `json:"baseMaterials" yaml:"baseMaterials"`
	Bottleneck    *Bottleneck       `json:"bottleneck" yaml:"bottleneck"`
	LimitingStage *LimitingStage    `json:"limitingStage,omitempty" yaml:"limitingStage,omitempty"`
	Rate          rational.Rational `json:"calculatedOutputRate" yaml:"calculatedOutputRate"`
	ScaleFactor   *big.Int          `json:"scaleFactor" yaml:"scaleFactor"`
	Flows         []Flow            `json:"connections" yaml:"connections"`
	Issues        []Issue           `json:"issues,omitempty" yaml:"issues,omitempty"`
	Truncated     bool              `json:"truncated,omitempty" yaml:"truncated,omitempty"`

	RatePerSecond float64 `json:"ratePerSecond" yaml:"ratePerSecond"`
	RatePerMinute float64 `json:"ratePerMinute" yaml:"ratePerMinute"`
}

// PlanOptions configures [Plan].
type PlanOptions struct {
	BaseMaterials []string
	Policy        Policy            // default: Fastest
	MaxDepth      int               // default: 50
	MaxNodes      int               // default: 5000
	TimeBase      rational.Rational // default: 60 seconds
	Logger        *log.Logger
}

// Plan builds, selects, balances and presents a plan for target.
func Plan(pc *Context, target string, opts PlanOptions) (*ProductionPlan, error) {
	t := Build(pc, target, BuildOptions{
		BaseMaterials: opts.BaseMaterials,
		MaxDepth:      opts.MaxDepth,
		MaxNodes:      opts.MaxNodes,
		Logger:        opts.Logger,
	})
	return FromTree(pc, t, opts)
}

// FromTree selects, balances and presents a plan for an already built tree.
// Only the Policy and TimeBase options are used.
func FromTree(pc *Context, t *Tree, opts PlanOptions) (*ProductionPlan, error) {
	policy := opts.Policy
	if policy == nil {
		policy = Fastest{}
	}

	sel, issues := Select(t, policy)
	sol, err := Balance(t, sel, BalanceOptions{TimeBase: opts.TimeBase})
	if err != nil {
		return nil, err
	}

	p := assemble(pc, t.Target(), sol)
	p.Policy = policy.Name()
	p.Issues = issues
	p.Truncated = t.Truncated()
	present(p)
	p.Bottleneck = FindBottleneck(p.Devices)
	return p, nil
}

func assemble(pc *Context, target string, sol *Solution) *ProductionPlan {
	p := &ProductionPlan{
		Target:      ItemRef{ID: target, Name: pc.ItemName(target)},
		TimeBase:    sol.TimeBase,
		Rate:        sol.Rate,
		ScaleFactor: sol.ScaleFactor,
	}

	// consumers[item] lists stages taking item as a net input, in stage order.
	consumers := make(map[string][]Binding)
	for _, s := range sol.Stages {
		for _, in := range s.Recipe.NetInputs() {
			consumers[in.ItemID] = append(consumers[in.ItemID], Binding{
				ItemID: in.ItemID,
				Kind:   ToDevice,
				Stage:  s.ItemID,
				Rate:   s.Crafts.Mul(in.Count),
			})
		}
	}

	for _, s := range sol.Stages {
		d := DeviceConfig{
			ItemID:         s.ItemID,
			ItemName:       pc.ItemName(s.ItemID),
			RecipeID:       s.Recipe.ID,
			DeviceID:       s.Recipe.DeviceID,
			DeviceName:     s.Recipe.DeviceName,
			Count:          s.Devices,
			Duration:       s.Recipe.Duration,
			NominalCrafts:  s.NominalCrafts,
			Crafts:         s.Crafts,
			BatchCrafts:    s.BatchCrafts,
			ProductionRate: s.Capacity,
			OutputRate:     s.Output,
			Utilization:    s.Utilization,
		}

		for _, in := range s.Recipe.NetInputs() {
			b := Binding{ItemID: in.ItemID, Kind: FromWarehouse, Rate: s.Crafts.Mul(in.Count)}
			from := Warehouse
			if _, ok := sol.Stage(in.ItemID); ok {
				b.Kind, b.Stage = FromDevice, in.ItemID
				from = in.ItemID
			}
			d.Inputs = append(d.Inputs, b)
			p.Flows = append(p.Flows, Flow{From: from, To: s.ItemID, ItemID: in.ItemID, ItemName: pc.ItemName(in.ItemID), Rate: b.Rate})
		}

		for _, out := range s.Recipe.NetOutputs() {
			rate := s.Crafts.Mul(out.Count)
			switch {
			case out.ItemID != s.ItemID:
				d.Outputs = append(d.Outputs, Binding{ItemID: out.ItemID, Kind: ToSurplus, Rate: rate})
				p.Flows = append(p.Flows, Flow{From: s.ItemID, To: Surplus, ItemID: out.ItemID, ItemName: pc.ItemName(out.ItemID), Rate: rate})
			default:
				d.Outputs = append(d.Outputs, consumers[out.ItemID]...)
				if out.ItemID == target {
					d.Outputs = append(d.Outputs, Binding{ItemID: out.ItemID, Kind: ToOutput, Rate: sol.Rate})
					p.Flows = append(p.Flows, Flow{From: s.ItemID, To: Output, ItemID: out.ItemID, ItemName: p.Target.Name, Rate: sol.Rate})
				}
			}
		}

		p.Devices = append(p.Devices, d)
		p.TotalDevices += d.Count
	}

	for _, dr := range sol.Draws {
		p.BaseMaterials = append(p.BaseMaterials, BaseDraw{
			ItemID: dr.ItemID,
			Name:   pc.ItemName(dr.ItemID),
			Rate:   dr.Rate,
			Batch:  dr.Batch,
		})
	}
	if target != "" && len(sol.Stages) == 0 {
		p.Flows = append(p.Flows, Flow{From: Warehouse, To: Output, ItemID: target, ItemName: p.Target.Name, Rate: sol.Rate})
	}

	if s, ok := sol.Stage(sol.Limiting); ok {
		p.LimitingStage = &LimitingStage{
			ItemID:     s.ItemID,
			ItemName:   pc.ItemName(s.ItemID),
			DeviceName: s.Recipe.DeviceName,
			Rate:       s.Output,
		}
	}
	return p
}

// present fills every display field. It is the only place floats are made.
func present(p *ProductionPlan) {
	perMinute := func(r rational.Rational) float64 {
		v, _ := r.Mul(rational.FromInt(60)).Div(p.TimeBase)
		return v.Float64()
	}
	perSecond := func(r rational.Rational) float64 {
		v, _ := r.Div(p.TimeBase)
		return v.Float64()
	}

	p.RatePerSecond = perSecond(p.Rate)
	p.RatePerMinute = perMinute(p.Rate)

	for i := range p.Devices {
		d := &p.Devices[i]
		d.PerSecond = perSecond(d.ProductionRate)
		d.PerMinute = perMinute(d.ProductionRate)
		d.OutputPerMinute = perMinute(d.OutputRate)
		d.UtilizationPercent = d.Utilization.Mul(rational.FromInt(100)).Float64()
		for j := range d.Inputs {
			d.Inputs[j].PerMinute = perMinute(d.Inputs[j].Rate)
		}
		for j := range d.Outputs {
			d.Outputs[j].PerMinute = perMinute(d.Outputs[j].Rate)
		}
	}
	for i := range p.BaseMaterials {
		p.BaseMaterials[i].PerSecond = perSecond(p.BaseMaterials[i].Rate)
		p.BaseMaterials[i].PerMinute = perMinute(p.BaseMaterials[i].Rate)
	}
	for i := range p.Flows {
		p.Flows[i].PerMinute = perMinute(p.Flows[i].Rate)
	}
	if p.LimitingStage != nil {
		p.LimitingStage.PerMinute = perMinute(p.LimitingStage.Rate)
	}
	if p.Bottleneck != nil {
		p.Bottleneck.PerMinute = perMinute(p.Bottleneck.Rate)
	}
}

// Present recomputes the display fields of p from its exact fields. Use it
// after decoding a plan that was stored without them.
func Present(p *ProductionPlan) {
	if p.TimeBase.IsPositive() {
		present(p)
	}
}

// ItemNames returns the display name of every item p mentions.
func (p *ProductionPlan) ItemNames() map[string]string {
	out := make(map[string]string, len(p.Devices)+len(p.BaseMaterials)+1)
	out[p.Target.ID] = p.Target.Name
	for _, d := range p.Devices {
		out[d.ItemID] = d.ItemName
	}
	for _, b := range p.BaseMaterials {
		out[b.ItemID] = b.Name
	}
	return out
}
