package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/craftplan/pkg/planner"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds recipe ids, utilization and per-minute rates to labels.
	Detailed bool
}

const (
	bottleneckFill = "#fde2e2"
	finalFill      = "#e2f0fd"
	endpointFill   = "#f2f2f2"
)

// ToDOT converts a plan to Graphviz DOT source.
func ToDOT(p *planner.ProductionPlan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph plan {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	endpoints := map[string]bool{planner.Warehouse: false, planner.Output: false, planner.Surplus: false}
	for _, f := range p.Flows {
		if _, ok := endpoints[f.From]; ok {
			endpoints[f.From] = true
		}
		if _, ok := endpoints[f.To]; ok {
			endpoints[f.To] = true
		}
	}
	for _, ep := range []string{planner.Warehouse, planner.Output, planner.Surplus} {
		if endpoints[ep] {
			fmt.Fprintf(&buf, "  %q [label=%q, shape=%s, fillcolor=%q];\n", ep, endpointLabel(ep, p), endpointShape(ep), endpointFill)
		}
	}

	for _, d := range p.Devices {
		attrs := []string{fmt.Sprintf("label=%q", deviceLabel(d, opts.Detailed))}
		switch {
		case p.Bottleneck != nil && p.Bottleneck.ItemID == d.ItemID:
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", bottleneckFill), "color=red")
		case d.IsFinal():
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", finalFill))
		}
		if p.LimitingStage != nil && p.LimitingStage.ItemID == d.ItemID {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", stageNode(d.ItemID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, f := range p.Flows {
		name := f.ItemName
		if name == "" {
			name = f.ItemID
		}
		label := name + "\n" + f.Rate.String()
		if opts.Detailed {
			label += fmt.Sprintf("\n%.2f/min", f.PerMinute)
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", endpointNode(f.From), endpointNode(f.To), label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func stageNode(item string) string { return "stage:" + item }

func endpointNode(id string) string {
	switch id {
	case planner.Warehouse, planner.Output, planner.Surplus:
		return id
	}
	return stageNode(id)
}

func endpointShape(ep string) string {
	if ep == planner.Warehouse {
		return "cylinder"
	}
	return "house"
}

func endpointLabel(ep string, p *planner.ProductionPlan) string {
	switch ep {
	case planner.Warehouse:
		return "Warehouse"
	case planner.Output:
		return fmt.Sprintf("%s\n%s per %ss", p.Target.Name, p.Rate, p.TimeBase)
	}
	return "Surplus"
}

func deviceLabel(d planner.DeviceConfig, detailed bool) string {
	device := d.DeviceName
	if device == "" {
		device = d.DeviceID
	}
	label := fmt.Sprintf("%d × %s\n%s", d.Count, device, d.ItemName)
	if detailed {
		label += fmt.Sprintf("\nrecipe %s\n%.0f%% busy", d.RecipeID, d.UtilizationPercent)
	}
	return label
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized svg tag with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
