package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// historyCommand creates the history command for saved plans.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved plans",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyDeleteCommand())

	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No saved plans")
				return nil
			}

			t := newTable("ID", "Saved", "Item", "Policy", "Per min", "Devices")
			for _, r := range records {
				t.Row(
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Plan.Target.Name,
					r.Policy,
					formatFloat(r.Plan.RatePerMinute),
					strconv.FormatInt(r.Plan.TotalDevices, 10),
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of plans (0 for all)")
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outf := outputFlags{format: format}
			if err := outf.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), rec.Plan, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")
	return cmd
}

func (c *CLI) historyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete saved plans",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess("Deleted %s", id)
			}
			return nil
		},
	}
}
