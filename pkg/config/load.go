package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tileboard/pkg/errors"
	"github.com/matzehuels/tileboard/pkg/imagesource"
	"github.com/matzehuels/tileboard/pkg/tile"
)

const appName = "tileboard"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/tileboard/config.toml
//  2. ~/.config/tileboard/config.toml
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load() (*Config, error) {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader. Keys absent from
// the input keep their default values.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Canvas: CanvasConfig{
			Width:      800,
			Height:     480,
			TileWidth:  tile.DefaultWidth,
			TileHeight: tile.DefaultHeight,
		},
		Images: ImagesConfig{
			Endpoint: imagesource.DefaultEndpoint,
			Field:    imagesource.DefaultField,
			CacheTTL: Duration{imagesource.DefaultTTL},
			Timeout:  Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(xdgCacheHome(home), appName),
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Gesture: GestureConfig{
			Cancel:          "rollback",
			HandleTolerance: 10,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{15 * time.Second},
			ShutdownTimeout: Duration{5 * time.Second},
		},
		TUI: TUIConfig{
			CellWidth:  10,
			CellHeight: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
// A value that cannot be parsed is an INVALID_CONFIG error.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TILEBOARD_IMAGES_ENDPOINT"); v != "" {
		cfg.Images.Endpoint = v
	}
	if v := os.Getenv("TILEBOARD_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("TILEBOARD_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("TILEBOARD_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("TILEBOARD_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("TILEBOARD_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "TILEBOARD_REDIS_DB must be an integer")
		}
		cfg.Cache.Redis.DB = db
	}
	if v := os.Getenv("TILEBOARD_GESTURE_CANCEL"); v != "" {
		cfg.Gesture.Cancel = v
	}
	if v := os.Getenv("TILEBOARD_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TILEBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// SearchPaths returns the ordered list of config file paths to try.
func SearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}
	return paths
}

func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
