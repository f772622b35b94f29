package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// selectCommand creates the select command.
func (c *CLI) selectCommand() *cobra.Command {
	var (
		src  sourceFlags
		pf   planFlags
		outf outputFlags
	)

	cmd := &cobra.Command{
		Use:   "select <item>",
		Short: "Choose raw materials interactively, then plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := outf.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, c.source(cmd, &src), pf.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.options(cmd, &pf, args[0])
			preset := opts.BaseMaterials

			// The picker shows the full tree so every item is choosable.
			full := opts
			full.BaseMaterials = nil
			tree, err := runner.Tree(ctx, full)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(
				NewBasePickerModel(tree, preset),
				tea.WithContext(ctx),
				tea.WithOutput(os.Stderr),
			).Run()
			if err != nil {
				return err
			}
			picked := final.(BasePickerModel)
			if !picked.Confirmed {
				printInfo("Cancelled")
				return nil
			}

			opts.BaseMaterials = picked.Selected()
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}
			return c.emitPlan(ctx, cmd.OutOrStdout(), result.Plan, opts, &outf)
		},
	}

	src.register(cmd)
	pf.register(cmd)
	outf.register(cmd)
	return cmd
}
