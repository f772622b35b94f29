package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/craftplan/pkg/errors"
	cpio "github.com/matzehuels/craftplan/pkg/io"
	"github.com/matzehuels/craftplan/pkg/planner"
)

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		src    sourceFlags
		pf     planFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "tree <item>",
		Short: "Print the dependency tree of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != cpio.FormatJSON {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be text or json)", format)
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, c.source(cmd, &src), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			tree, err := runner.Tree(ctx, c.options(cmd, &pf, args[0]))
			if err != nil {
				return err
			}
			if format == cpio.FormatJSON {
				return cpio.WriteTreeJSON(tree, cmd.OutOrStdout())
			}
			writeTreeText(cmd.OutOrStdout(), tree)
			return nil
		},
	}

	src.register(cmd)
	pf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json")
	return cmd
}

// writeTreeText draws t with box characters, one node per line.
func writeTreeText(w io.Writer, t *planner.Tree) {
	var walk func(id planner.NodeID, prefix string, last, root bool)
	walk = func(id planner.NodeID, prefix string, last, root bool) {
		n := t.Node(id)
		branch, next := "", ""
		if !root {
			branch, next = "├── ", prefix+"│   "
			if last {
				branch, next = "└── ", prefix+"    "
			}
		}
		fmt.Fprintln(w, StyleDim.Render(prefix+branch)+nodeLabel(n))
		for i, child := range n.Children {
			walk(child, next, i == len(n.Children)-1, false)
		}
	}
	walk(t.Root(), "", true, true)

	if t.Truncated() {
		fmt.Fprintln(w, StyleWarning.Render("(truncated)"))
	}
}

func nodeLabel(n planner.Node) string {
	if n.IsBase {
		return StyleValue.Render(n.ItemName) + " " + StyleDim.Render("("+string(n.Reason)+")")
	}
	devices := make([]string, 0, len(n.Recipes))
	seen := make(map[string]bool, len(n.Recipes))
	for _, r := range n.Recipes {
		if !seen[r.DeviceName] {
			seen[r.DeviceName] = true
			devices = append(devices, r.DeviceName)
		}
	}
	return StyleHighlight.Render(n.ItemName) + " " + StyleDim.Render("["+strings.Join(devices, ", ")+"]")
}
