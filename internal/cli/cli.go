// Package cli implements the craftplan command-line interface.
//
// Commands share one [CLI] value holding the logger and the loaded
// configuration. Flags override values from the config file.
//
// # Commands
//
//   - plan: balance a production line for one item
//   - tree: print the dependency tree of an item
//   - cycles: list unbreakable recipe cycles in the database
//   - select: pick base materials interactively, then plan
//   - batch: plan several items concurrently
//   - render: draw a saved plan as SVG, PNG or DOT
//   - history: list, show and delete saved plans
//   - cache: manage the plan cache
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/craftplan/pkg/buildinfo"
	"github.com/matzehuels/craftplan/pkg/cache"
	"github.com/matzehuels/craftplan/pkg/config"
	"github.com/matzehuels/craftplan/pkg/observability"
	"github.com/matzehuels/craftplan/pkg/pipeline"
	"github.com/matzehuels/craftplan/pkg/store"
)

const appName = "craftplan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath  string
	metricsFile string
	registry    *prometheus.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Craftplan balances production lines from a recipe database",
		Long:         `Craftplan reads a crafting game's recipe database and computes how many devices of each kind are needed to produce an item continuously, which raw materials must be supplied, and where the line is bottlenecked.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/craftplan/config.toml)")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file on exit")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and installs metrics hooks.
func (c *CLI) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}

	if c.metricsFile != "" {
		c.registry = prometheus.NewRegistry()
		hooks := observability.NewPrometheusHooks(c.registry)
		observability.SetPlannerHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	return nil
}

func (c *CLI) flushMetrics() error {
	if c.registry == nil {
		return nil
	}
	if err := observability.WriteTextfile(c.metricsFile, c.registry); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, src pipeline.Source, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	ttl, err := c.Config.CacheTTL()
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	r := pipeline.NewRunner(src, ch, keyer, c.Logger)
	r.TTL = ttl
	return r, nil
}

// newCache opens the configured cache backend. An unreachable Redis falls
// back to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		r := c.Config.Cache.Redis
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Prefix:   r.Prefix,
		})
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// newStore opens the configured plan store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.Backend == config.BackendMongo {
		m := c.Config.Store.Mongo
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        m.URI,
			Database:   m.Database,
			Collection: m.Collection,
		})
	}
	return store.NewFileStore(c.Config.Store.Dir)
}
