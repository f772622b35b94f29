package recipe_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/craftplan/pkg/recipe"
)

func ExampleLoad() {
	doc := `{
	  "recipes": {
	    "smelt": {"deviceId": "furnace", "deviceName": "Furnace",
	              "materials": [{"id": "ore", "name": "Iron Ore", "count": "2"}],
	              "products":  [{"id": "ingot", "name": "Iron Ingot", "count": 1}],
	              "manufacturingTime": 1.5}
	  }
	}`

	db, err := recipe.Load(strings.NewReader(doc))
	if err != nil {
		panic(err)
	}
	idx := recipe.NewIndex(db, nil)

	r := idx.Producers("ingot")[0]
	fmt.Println(r.DeviceName, r.Duration)
	for _, in := range r.NetInputs() {
		fmt.Println("needs", in.Count, in.Name)
	}
	// Output:
	// Furnace 3/2
	// needs 2 Iron Ore
}

func ExampleDetectCycles() {
	doc := `{
	  "recipes": {
	    "a": {"materials": [{"id": "x", "count": 1}], "products": [{"id": "y", "count": 1}]},
	    "b": {"materials": [{"id": "y", "count": 1}], "products": [{"id": "x", "count": 1}]}
	  }
	}`

	db, _ := recipe.Load(strings.NewReader(doc))
	groups := recipe.DetectCycles(recipe.NewIndex(db, nil))

	for _, g := range groups.Groups() {
		fmt.Println(g.ID, g.Items)
	}
	// Output:
	// 0 [x y]
}
