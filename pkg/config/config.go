// Package config provides TOML-based configuration for tileboard.
//
// A missing file is not an error: [Load] falls back to [DefaultConfig].
// Environment variables prefixed TILEBOARD_ override file values, and CLI
// flags override both.
package config

import (
	"strings"

	"github.com/matzehuels/tileboard/pkg/canvas"
	"github.com/matzehuels/tileboard/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the root configuration.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Images  ImagesConfig  `toml:"images"`
	Cache   CacheConfig   `toml:"cache"`
	Gesture GestureConfig `toml:"gesture"`
	Server  ServerConfig  `toml:"server"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// CanvasConfig sizes the container and new tiles, in pixels.
type CanvasConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	TileWidth  float64 `toml:"tile_width"`
	TileHeight float64 `toml:"tile_height"`
}

// ImagesConfig selects the image source. A non-empty URLs list is served
// as-is and the endpoint is never contacted.
type ImagesConfig struct {
	Endpoint string   `toml:"endpoint"`
	Field    string   `toml:"field"`
	URLs     []string `toml:"urls"`
	CacheTTL Duration `toml:"cache_ttl"`
	Timeout  Duration `toml:"timeout"`
}

// CacheConfig selects where fetched image lists are cached.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig addresses the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// GestureConfig tunes interaction behavior.
type GestureConfig struct {
	// Cancel is "rollback" or "keep".
	Cancel string `toml:"cancel"`
	// HandleTolerance is how close, in pixels, a pointer must be to an edge
	// to grab a resize handle.
	HandleTolerance float64 `toml:"handle_tolerance"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// TUIConfig maps terminal cells to canvas pixels.
type TUIConfig struct {
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// CancelPolicy parses Gesture.Cancel.
func (c *Config) CancelPolicy() (canvas.CancelPolicy, error) {
	return canvas.ParseCancelPolicy(c.Gesture.Cancel)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	dims := []struct {
		name string
		v    float64
	}{
		{"canvas.width", c.Canvas.Width},
		{"canvas.height", c.Canvas.Height},
		{"canvas.tile_width", c.Canvas.TileWidth},
		{"canvas.tile_height", c.Canvas.TileHeight},
		{"gesture.handle_tolerance", c.Gesture.HandleTolerance},
		{"tui.cell_width", c.TUI.CellWidth},
		{"tui.cell_height", c.TUI.CellHeight},
	}
	for _, d := range dims {
		if err := errors.ValidateDimension(d.name, d.v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", d.name)
		}
	}
	if c.TUI.CellWidth == 0 || c.TUI.CellHeight == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tui cell size must be positive")
	}

	if len(c.Images.URLs) == 0 {
		if err := errors.ValidateURL(c.Images.Endpoint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid images.endpoint")
		}
	}
	for _, u := range c.Images.URLs {
		if err := errors.ValidateURL(u); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid image url %q", u)
		}
	}

	switch strings.ToLower(c.Cache.Backend) {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}

	if _, err := c.CancelPolicy(); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	return nil
}
