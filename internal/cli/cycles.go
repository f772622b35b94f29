package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// cyclesCommand creates the cycles command.
func (c *CLI) cyclesCommand() *cobra.Command {
	var (
		src    sourceFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "List recipe cycles that cannot be entered from outside",
		Long: `Cycles reports groups of items that can only be made from each other.
Items in such a group are always treated as raw materials when planning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, c.source(cmd, &src), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			pc, _, err := runner.Context(ctx)
			if err != nil {
				return err
			}
			groups := pc.Cycles.Groups()

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			}

			if len(groups) == 0 {
				printInfo("No unbreakable cycles")
				return nil
			}
			for _, g := range groups {
				names := make([]string, len(g.Items))
				for i, item := range g.Items {
					names[i] = pc.ItemName(item)
				}
				fmt.Fprintf(w, "%s %s\n", StyleNumber.Render(fmt.Sprintf("#%d", g.ID)), strings.Join(names, StyleDim.Render(" ⇄ ")))
			}
			printDetail("%d groups, %d breakable cycles ignored", len(groups), len(pc.Cycles.Broken))
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print groups as JSON")
	return cmd
}
