// Package nodelink renders production plans as node-link flow diagrams.
//
// [ToDOT] produces Graphviz DOT source with one node per device bank plus
// the warehouse, output and surplus endpoints. Edges carry the item name and
// its exact rate per time base; the bottleneck bank is filled red and the
// limiting stage is drawn bold.
//
//	dot := nodelink.ToDOT(plan, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. Rendering runs in-process through [github.com/goccy/go-graphviz],
// so no Graphviz installation is needed.
package nodelink
