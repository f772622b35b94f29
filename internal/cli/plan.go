package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/craftplan/pkg/errors"
	cpio "github.com/matzehuels/craftplan/pkg/io"
	"github.com/matzehuels/craftplan/pkg/pipeline"
	"github.com/matzehuels/craftplan/pkg/planner"
	"github.com/matzehuels/craftplan/pkg/store"
)

const formatTable = "table"

// outputFlags choose how a plan is written.
type outputFlags struct {
	format string
	output string
	save   bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the plan to a file (format from extension)")
	cmd.Flags().BoolVar(&f.save, "save", false, "save the plan to history")
}

func (f *outputFlags) validate() error {
	switch f.format {
	case formatTable, cpio.FormatJSON, cpio.FormatYAML, "yml":
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be table, json or yaml)", f.format)
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		src  sourceFlags
		pf   planFlags
		outf outputFlags
	)

	cmd := &cobra.Command{
		Use:   "plan <item>",
		Short: "Balance a production line for an item",
		Long: `Plan selects a recipe for every intermediate item, computes the smallest
whole number of devices that run in exact balance, and reports the raw
materials to supply and the stage that limits throughput.`,
		Example: `  craftplan plan iron-gear --db recipes.json
  craftplan plan circuit --base iron-plate,copper-plate --time-base 3600
  craftplan plan circuit -f json -o circuit.json --save`,
		Args: cobra.ExactArgs(1),
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
			result, err := runner.Execute(ctx, opts)
			if err != nil {
				return err
			}
			if err := c.emitPlan(ctx, cmd.OutOrStdout(), result.Plan, opts, &outf); err != nil {
				return err
			}
			if outf.output != "" {
				printStats(result.Stats.Nodes, result.Stats.Devices, result.CacheHit)
				if strings.EqualFold(filepath.Ext(outf.output), ".json") {
					printNextStep("Draw it", "craftplan render "+outf.output)
				}
			}
			return nil
		},
	}

	src.register(cmd)
	pf.register(cmd)
	outf.register(cmd)
	return cmd
}

// emitPlan writes p according to outf and saves it when requested.
func (c *CLI) emitPlan(ctx context.Context, w io.Writer, p *planner.ProductionPlan, opts pipeline.Options, outf *outputFlags) error {
	if outf.save {
		if err := c.savePlan(ctx, p, opts.BaseMaterials); err != nil {
			return err
		}
	}

	if outf.output != "" {
		if err := cpio.ExportPlan(p, outf.output); err != nil {
			return err
		}
		printSuccess("Wrote %s", p.Target.Name)
		printFile(outf.output)
		return nil
	}
	return writePlan(w, p, outf.format)
}

func writePlan(w io.Writer, p *planner.ProductionPlan, format string) error {
	if format == formatTable {
		writePlanTable(w, p)
		return nil
	}
	return cpio.WritePlan(p, format, w)
}

func (c *CLI) savePlan(ctx context.Context, p *planner.ProductionPlan, base []string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	rec := store.NewRecord(p, base)
	if err := st.Save(ctx, rec); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	c.Logger.Info("saved plan", "id", rec.ID, "target", rec.Target)
	return nil
}
