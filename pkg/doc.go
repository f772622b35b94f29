// Package pkg holds the craftplan libraries.
//
// # Overview
//
// Craftplan turns a crafting game's recipe database into a balanced
// production line. The pkg directory is organized into three areas:
//
//  1. Domain: [recipe] (database, index, cycle groups), [planner] (tree,
//     selection, balancing, bottlenecks) and [rational] (exact arithmetic)
//  2. Orchestration: [pipeline] runs load, build and balance with caching
//  3. Infrastructure: [cache], [store], [config], [observability], [io] and
//     [render/nodelink]
//
// # Architecture
//
//	recipe database JSON
//	         ↓
//	    [recipe] package (parse, index, detect cycles)
//	         ↓
//	    [planner] package (tree → selection → balance → plan)
//	         ↓
//	    [io] / [render/nodelink] (JSON, YAML, DOT, SVG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/craftplan/pkg/planner"
//	    "github.com/matzehuels/craftplan/pkg/recipe"
//	)
//
//	db, err := recipe.LoadFile("recipes.json")
//	if err != nil {
//	    return err
//	}
//	pc := planner.NewContext(recipe.NewIndex(db, nil), nil)
//	plan, err := planner.Plan(pc, "iron-gear", planner.PlanOptions{})
//
// For cached planning against files on disk, use [pipeline.Runner].
package pkg
