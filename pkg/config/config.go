// Package config loads the optional craftplan.toml configuration file.
//
// Values set in the file become the defaults for command-line flags; flags
// always win. A missing default file is not an error: [Load] returns
// [Default] instead.
//
//	[database]
//	path = "data/recipes.json"
//	items = "data/items.json"
//	ignored = "data/ignored.json"
//	ignored_devices = ["creative-source"]
//
//	[planner]
//	base_materials = ["iron-ore", "copper-ore"]
//	policy = "fastest"
//	max_depth = 50
//	time_base = "60"
//
//	[cache]
//	backend = "redis"   # file, redis or none
//	ttl = "168h"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"   # file or mongo
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/craftplan/pkg/cache"
	"github.com/matzehuels/craftplan/pkg/errors"
	"github.com/matzehuels/craftplan/pkg/pipeline"
	"github.com/matzehuels/craftplan/pkg/planner"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Planner  PlannerConfig  `toml:"planner"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type DatabaseConfig struct {
	Path           string   `toml:"path"`
	Items          string   `toml:"items"`
	Ignored        string   `toml:"ignored"`
	IgnoredDevices []string `toml:"ignored_devices"`
}

type PlannerConfig struct {
	BaseMaterials []string `toml:"base_materials"`
	Policy        string   `toml:"policy"`
	MaxDepth      int      `toml:"max_depth"`
	MaxNodes      int      `toml:"max_nodes"`
	TimeBase      string   `toml:"time_base"`
}

type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     string      `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Mongo   MongoConfig `toml:"mongo"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			Policy:   planner.DefaultPolicy,
			MaxDepth: pipeline.DefaultMaxDepth,
			MaxNodes: pipeline.DefaultMaxNodes,
			TimeBase: pipeline.DefaultTimeBase,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     cache.TTLPlan.String(),
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "craftplan:"},
		},
		Store: StoreConfig{Backend: BackendFile},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/craftplan/config.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "craftplan", "config.toml"), nil
}

// Load reads the config at path over the defaults. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Default(), nil
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	cfg.resolvePaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePaths makes relative file paths relative to the config file.
func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.Database.Path, &c.Database.Items, &c.Database.Ignored, &c.Cache.Dir, &c.Store.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks backend names, the TTL and the planner settings.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendFile:
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo.uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.backend must be file or mongo, got %q", c.Store.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}

	opts := c.PipelineOptions("probe")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "planner")
	}
	return nil
}

// CacheTTL parses cache.ttl.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.TTLPlan, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl %q is not a valid duration", c.Cache.TTL)
	}
	return d, nil
}

// Source returns the pipeline source described by the database section.
func (c *Config) Source() pipeline.Source {
	return pipeline.Source{
		DatabasePath:   c.Database.Path,
		ItemsPath:      c.Database.Items,
		IgnoredPath:    c.Database.Ignored,
		IgnoredDevices: c.Database.IgnoredDevices,
	}
}

// PipelineOptions returns plan options for target from the planner section.
func (c *Config) PipelineOptions(target string) pipeline.Options {
	return pipeline.Options{
		Target:        target,
		BaseMaterials: c.Planner.BaseMaterials,
		Policy:        c.Planner.Policy,
		MaxDepth:      c.Planner.MaxDepth,
		MaxNodes:      c.Planner.MaxNodes,
		TimeBase:      c.Planner.TimeBase,
	}
}
