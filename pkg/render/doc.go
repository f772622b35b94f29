// Package render turns production plans into diagrams.
//
// The [nodelink] subpackage draws a plan as a Graphviz flow diagram:
// the warehouse on the left, one box per device bank, and the output on the
// right, with every edge labelled by its exact rate.
//
//	dot := nodelink.ToDOT(plan, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/craftplan/pkg/render/nodelink
package render
