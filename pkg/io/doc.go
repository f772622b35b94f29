// Package io reads and writes production plans and dependency trees.
//
// Plans are written as JSON or YAML. Exact quantities are encoded as
// rational strings ("45/2"), device counts and batch sizes as integers, and
// every exact field is accompanied by a float copy for display:
//
//	{
//	  "targetProduct": {"id": "gear", "name": "Gear"},
//	  "calculatedOutputRate": "10",
//	  "ratePerMinute": 10,
//	  "devices": [...],
//	  "baseMaterials": [{"id": "iron", "requiredRate": "15", ...}],
//	  "connections": [...]
//	}
//
// [ReadPlanJSON] restores the display fields from the exact ones, so a plan
// edited by hand stays self-consistent.
//
// Trees are exported as nested JSON with one object per tree position:
//
//	{"item": "gear", "base": false, "recipes": ["gear"], "children": [...]}
package io
