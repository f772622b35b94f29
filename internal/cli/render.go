package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/craftplan/pkg/errors"
	cpio "github.com/matzehuels/craftplan/pkg/io"
	"github.com/matzehuels/craftplan/pkg/render/nodelink"
)

// Diagram formats.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatDOT = "dot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (default: input with new extension)
	format   string // svg, png or dot
	detailed bool   // add per-minute rates to edge labels
}

// renderCommand creates the render command for drawing a saved plan.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render <plan.json>",
		Short: "Draw a plan as a device diagram",
		Long: `Render reads a plan written by "craftplan plan -f json" and draws the
devices and material flows between them. The bottleneck stage is shown in red.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRenderFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (\"-\" for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show per-minute rates on flows")
	return cmd
}

func validateRenderFormat(format string) error {
	switch format {
	case formatSVG, formatPNG, formatDOT:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be svg, png or dot)", format)
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	p, err := cpio.ImportPlan(input)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(p, nodelink.Options{Detailed: opts.detailed})
	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatPNG:
		data, err = nodelink.RenderPNG(cmd.Context(), dot)
	default:
		data, err = nodelink.RenderSVG(cmd.Context(), dot)
	}
	if err != nil {
		return err
	}

	out := opts.output
	if out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	c.Logger.Debug("rendered plan", "devices", len(p.Devices), "format", opts.format)
	printSuccess("Rendered %s", p.Target.Name)
	printFile(out)
	return nil
}
