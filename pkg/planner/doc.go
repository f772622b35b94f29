// Package planner turns a target item into an exact production plan.
//
// # Pipeline
//
// Planning runs in four steps, each usable on its own:
//
//  1. [Build] expands the target into a dependency [Tree], stopping at base
//     materials, unbreakable cycles, items without recipes, ancestors already
//     on the current path and the depth and node limits.
//  2. [Select] picks one recipe per item with a pluggable [Policy].
//  3. [Balance] computes exact craft rates, integer device counts, base
//     material draws and the achievable output rate.
//  4. [FindBottleneck] reports the upstream bank with the least craft capacity.
//
// [Plan] chains all four and converts the result into a [ProductionPlan].
//
// # Context
//
// A [Context] bundles the recipe index, its cycle groups and the item lookup.
// It is built once per database load with [NewContext] and is read-only
// afterwards, so any number of goroutines may plan against it at once.
// Rebuilding means constructing a new Context.
//
// # Exactness
//
// Every rate and count inside this package is a [rational.Rational]. Floats
// are written only by the final presentation step of [Plan] into fields whose
// names end in PerSecond, PerMinute or Percent.
//
// # Shape of the world versus bad data
//
// Missing recipes, cycles and depth limits are not errors: the affected items
// become base materials and planning continues. Bad recipe data is different:
// a recipe with a non-positive duration or no net output is skipped by the
// selector, and an item left with no usable recipe is reported as an [Issue]
// with code NO_VALID_RECIPE.
package planner
