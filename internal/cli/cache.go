package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/craftplan/pkg/cache"
	"github.com/matzehuels/craftplan/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the plan cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where plans are cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the file
// cache, a redis URL otherwise.
func (c *CLI) cacheLocation() string {
	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		r := c.Config.Cache.Redis
		return fmt.Sprintf("redis://%s/%d (prefix %q)", r.Addr, r.DB, r.Prefix)
	case config.BackendNone:
		return "disabled"
	}
	dir, err := c.cacheDir()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}
