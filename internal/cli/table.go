package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/craftplan/pkg/planner"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle.Padding(0, 1)
			}
			return tableCellStyle
		})
}

// writePlanTable prints a human-readable summary of p.
func writePlanTable(w io.Writer, p *planner.ProductionPlan) {
	fmt.Fprintln(w, StyleTitle.Render(p.Target.Name)+"  "+
		StyleNumber.Render(formatFloat(p.RatePerMinute)+"/min")+"  "+
		StyleDim.Render(fmt.Sprintf("(%s per %ss, %s)", p.Rate, p.TimeBase, p.Policy)))

	if len(p.Devices) > 0 {
		t := newTable("Count", "Device", "Making", "Per min", "Load")
		for _, d := range p.Devices {
			t.Row(
				strconv.FormatInt(d.Count, 10),
				d.DeviceName,
				d.ItemName,
				formatFloat(d.OutputPerMinute),
				formatFloat(d.UtilizationPercent)+"%",
			)
		}
		fmt.Fprintln(w, t.Render())
	}

	if len(p.BaseMaterials) > 0 {
		t := newTable("Raw material", "Per min", "Per sec")
		for _, b := range p.BaseMaterials {
			t.Row(b.Name, formatFloat(b.PerMinute), formatFloat(b.PerSecond))
		}
		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d devices", p.TotalDevices)))
	if p.Bottleneck != nil {
		fmt.Fprintln(w, StyleWarning.Render("Bottleneck: ")+p.Bottleneck.Description)
	}
	if ls := p.LimitingStage; ls != nil {
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("Slowest stage: %s (%s/min)", ls.DeviceName, formatFloat(ls.PerMinute))))
	}
	for _, issue := range p.Issues {
		fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(issue.Message))
	}
	if p.Truncated {
		fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render("tree was truncated; raise --max-depth or --max-nodes"))
	}
}

// formatFloat trims trailing zeros from a two-decimal rendering.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
