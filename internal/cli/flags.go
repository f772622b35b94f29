package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/craftplan/pkg/pipeline"
)

// sourceFlags select the recipe database files.
type sourceFlags struct {
	db             string
	items          string
	ignored        string
	ignoredDevices []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.db, "db", "", "recipe database JSON file")
	cmd.Flags().StringVar(&f.items, "items", "", "item lookup JSON file (display names)")
	cmd.Flags().StringVar(&f.ignored, "ignored", "", "JSON file listing ignored devices")
	cmd.Flags().StringSliceVar(&f.ignoredDevices, "ignore-device", nil, "device id to ignore (repeatable)")
}

// source merges the flags over the config's database section.
func (c *CLI) source(cmd *cobra.Command, f *sourceFlags) pipeline.Source {
	src := c.Config.Source()
	flags := cmd.Flags()
	if flags.Changed("db") {
		src.DatabasePath = f.db
	}
	if flags.Changed("items") {
		src.ItemsPath = f.items
	}
	if flags.Changed("ignored") {
		src.IgnoredPath = f.ignored
	}
	if flags.Changed("ignore-device") {
		src.IgnoredDevices = append(append([]string(nil), src.IgnoredDevices...), f.ignoredDevices...)
	}
	return src
}

// planFlags control tree expansion and balancing.
type planFlags struct {
	base     []string
	policy   string
	maxDepth int
	maxNodes int
	timeBase string
	noCache  bool
	refresh  bool
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.base, "base", "b", nil, "items to treat as raw materials (comma-separated)")
	cmd.Flags().StringVarP(&f.policy, "policy", "p", "", "recipe selection policy: fastest (default), fewest-materials")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum tree depth (default 50)")
	cmd.Flags().IntVar(&f.maxNodes, "max-nodes", 0, "maximum tree size (default 5000)")
	cmd.Flags().StringVarP(&f.timeBase, "time-base", "t", "", "seconds all rates are expressed against, e.g. 60 or 3600 (default 60)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the plan cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached plan exists")
}

// options merges the flags over the config's planner section.
func (c *CLI) options(cmd *cobra.Command, f *planFlags, target string) pipeline.Options {
	opts := c.Config.PipelineOptions(target)
	flags := cmd.Flags()
	if flags.Changed("base") {
		opts.BaseMaterials = f.base
	}
	if flags.Changed("policy") {
		opts.Policy = f.policy
	}
	if flags.Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if flags.Changed("max-nodes") {
		opts.MaxNodes = f.maxNodes
	}
	if flags.Changed("time-base") {
		opts.TimeBase = f.timeBase
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts
}
