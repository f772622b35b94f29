// Package recipe holds the recipe model and the read-only indexes the
// planner queries.
//
// # Overview
//
// A [Recipe] converts a multiset of material stacks into a multiset of product
// stacks on one device over a fixed duration. Counts and durations are exact
// [rational.Rational] values parsed straight from the database text, so "0.1"
// is 1/10 and never a float.
//
// Items can appear on both sides of the same recipe (catalysts, containers).
// Only the net effect counts: [Recipe.NetOutput] subtracts consumption from
// production for an item and [Recipe.NetInputs] lists what is actually used up.
//
// # Loading
//
// [Load] and [LoadFile] parse the recipe database:
//
//	{
//	  "recipes":     {"r1": {"deviceId": "...", "deviceName": "...",
//	                         "materials": [{"id": "...", "name": "...", "count": 1}],
//	                         "products":  [{"id": "...", "name": "...", "count": "2"}],
//	                         "manufacturingTime": 3}},
//	  "asMaterials": {"itemId": ["r1"]},
//	  "asProducts":  {"itemId": ["r1"]},
//	  "byDevice":    {"deviceId": ["r1"]}
//	}
//
// Counts may be JSON numbers or strings. A missing manufacturingTime defaults
// to [DefaultDuration].
//
// [NewIndex] turns a [Database] into an [Index], dropping recipes that run on
// ignored devices and recipes that produce nothing net.
//
// # Cycles
//
// [DetectCycles] runs Tarjan's strongly connected components over the
// product-to-material graph and keeps only the groups that cannot be entered
// from outside: no member has a recipe whose materials all lie outside the
// group. Every member of such a group must be supplied externally.
package recipe
