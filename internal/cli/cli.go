// Package cli implements the tileboard command-line interface.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tileboard/pkg/buildinfo"
	"github.com/matzehuels/tileboard/pkg/cache"
	"github.com/matzehuels/tileboard/pkg/canvas"
	"github.com/matzehuels/tileboard/pkg/config"
	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/geometry"
	"github.com/matzehuels/tileboard/pkg/imagesource"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tileboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tileboard arranges image tiles on a canvas",
		Long:         `Tileboard places image tiles on a bounded canvas and lets you drag and resize them, in the terminal or over an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tileboard/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "do not cache the image list")

	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.imagesCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Config & Wiring
// =============================================================================

// loadConfig reads and validates the configuration. An explicit --config
// path must exist. The configured log level applies unless --verbose raised
// it to debug.
func (c *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		if _, statErr := os.Stat(c.configPath); statErr != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, statErr, "read config %s", c.configPath)
		}
		cfg, err = config.LoadFromFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if c.Logger.GetLevel() != log.DebugLevel {
		if lvl, err := log.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
			c.Logger.SetLevel(lvl)
		}
	}
	return cfg, nil
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch strings.ToLower(cfg.Cache.Backend) {
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	case config.BackendFile:
		return cache.NewFileCache(cfg.Cache.Dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// workspace bundles what every canvas-driving command needs.
type workspace struct {
	cfg    *config.Config
	cache  cache.Cache
	images imagesource.Source
	canvas *canvas.Canvas
}

// openWorkspace loads config and wires cache, image source and canvas.
// A cache backend that cannot be reached degrades to no caching.
func (c *CLI) openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	ch, err := c.newCache(ctx, cfg)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
		ch = cache.NewNullCache()
	}

	src, err := c.newSource(cfg, ch)
	if err != nil {
		ch.Close()
		return nil, err
	}

	policy, _ := cfg.CancelPolicy()
	cv := canvas.New(
		canvas.WithSource(src),
		canvas.WithCancelPolicy(policy),
		canvas.WithTileSize(cfg.Canvas.TileWidth, cfg.Canvas.TileHeight),
		canvas.WithLogger(c.Logger),
	)
	return &workspace{cfg: cfg, cache: ch, images: src, canvas: cv}, nil
}

func (c *CLI) newSource(cfg *config.Config, ch cache.Cache) (imagesource.Source, error) {
	if len(cfg.Images.URLs) > 0 {
		return imagesource.Static(cfg.Images.URLs), nil
	}
	return imagesource.NewClient(cfg.Images.Endpoint,
		imagesource.WithHTTPClient(&http.Client{Timeout: cfg.Images.Timeout.Duration}),
		imagesource.WithCache(ch, cfg.Images.CacheTTL.Duration),
		imagesource.WithField(cfg.Images.Field),
		imagesource.WithHeaders(map[string]string{"User-Agent": buildinfo.UserAgent()}),
		imagesource.WithLogger(c.Logger),
	)
}

func (w *workspace) bounds() geometry.Bounds {
	return geometry.Bounds{Width: w.cfg.Canvas.Width, Height: w.cfg.Canvas.Height}
}

func (w *workspace) Close() error {
	return w.cache.Close()
}
