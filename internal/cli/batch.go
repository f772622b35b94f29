package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/craftplan/pkg/errors"
	cpio "github.com/matzehuels/craftplan/pkg/io"
	"github.com/matzehuels/craftplan/pkg/pipeline"
	"github.com/matzehuels/craftplan/pkg/planner"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		src         sourceFlags
		pf          planFlags
		format      string
		save        bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch <item>...",
		Short: "Plan several items concurrently",
		Example: `  craftplan batch gear circuit motor --db recipes.json
  craftplan batch gear circuit -f json > plans.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != cpio.FormatJSON {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be table or json)", format)
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, c.source(cmd, &src), pf.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Planning %d items...", len(args)))
			var (
				mu       sync.Mutex
				finished int
			)
			runner.OnPlanned = func(_ string, res *pipeline.Result) {
				mu.Lock()
				finished++
				spin.SetMessage(batchStatus(finished, len(args), res.Plan.Target.Name, res.CacheHit))
				mu.Unlock()
			}
			spin.Start()
			opts := c.options(cmd, &pf, args[0])
			results, err := runner.ExecuteAll(ctx, opts, args, concurrency)
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Planned %d items", len(results)))

			if save {
				for _, r := range results {
					if err := c.savePlan(ctx, r.Plan, opts.BaseMaterials); err != nil {
						return err
					}
				}
			}

			w := cmd.OutOrStdout()
			if format == cpio.FormatJSON {
				plans := make([]*planner.ProductionPlan, len(results))
				for i, r := range results {
					plans[i] = r.Plan
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(plans)
			}
			fmt.Fprintln(w, batchTable(results).Render())
			return nil
		},
	}

	src.register(cmd)
	pf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json")
	cmd.Flags().BoolVar(&save, "save", false, "save every plan to history")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", pipeline.DefaultConcurrency, "items planned at once")
	return cmd
}

func batchTable(results []*pipeline.Result) *table.Table {
	t := newTable("Item", "Per min", "Devices", "Bottleneck", "")
	for _, r := range results {
		p := r.Plan
		bottleneck := "-"
		if p.Bottleneck != nil {
			bottleneck = p.Bottleneck.DeviceName
		}
		status := styleComputed.Render(iconFresh)
		if r.CacheHit {
			status = styleCached.Render(iconCached)
		}
		t.Row(p.Target.Name, formatFloat(p.RatePerMinute), fmt.Sprint(p.TotalDevices), bottleneck, status)
	}
	return t
}
