package planner_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/craftplan/pkg/planner"
	"github.com/matzehuels/craftplan/pkg/rational"
	"github.com/matzehuels/craftplan/pkg/recipe"
)

func ExamplePlan() {
	doc := `{
	  "recipes": {
	    "press": {"deviceId": "press", "deviceName": "Press",
	              "materials": [{"id": "iron", "name": "Iron", "count": 1}],
	              "products":  [{"id": "plate", "name": "Plate", "count": 2}],
	              "manufacturingTime": 3},
	    "gear":  {"deviceId": "asm", "deviceName": "Assembler",
	              "materials": [{"id": "plate", "name": "Plate", "count": 3}],
	              "products":  [{"id": "gear", "name": "Gear", "count": 1}],
	              "manufacturingTime": 6}
	  }
	}`

	db, err := recipe.Load(strings.NewReader(doc))
	if err != nil {
		panic(err)
	}
	pc := planner.NewContext(recipe.NewIndex(db, nil), nil)

	p, err := planner.Plan(pc, "gear", planner.PlanOptions{})
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s: %s per %ss\n", p.Target.Name, p.Rate, p.TimeBase)
	for _, d := range p.Devices {
		fmt.Printf("%d x %s making %s at %s%%\n", d.Count, d.DeviceName, d.ItemName, d.Utilization.Mul(rational.FromInt(100)))
	}
	for _, b := range p.BaseMaterials {
		fmt.Printf("draw %s %s\n", b.Rate, b.Name)
	}
	// Output:
	// Gear: 10 per 60s
	// 1 x Assembler making Gear at 100%
	// 1 x Press making Plate at 75%
	// draw 15 Iron
}
