// Package config loads the rangedeck configuration file.
package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/store"
)

const appName = "rangedeck"

// Config is the contents of config.toml.
type Config struct {
	Store    store.Config   `toml:"store"`
	Catalog  string         `toml:"catalog"`
	Viewport ViewportConfig `toml:"viewport"`
	Server   ServerConfig   `toml:"server"`
}

// ViewportConfig sets the viewport the CLI lays comparisons out for.
type ViewportConfig struct {
	Width       float64          `toml:"width"`
	Breakpoints grid.Breakpoints `toml:"breakpoints"`
}

// ServerConfig configures `rangedeck serve`.
type ServerConfig struct {
	Addr string    `toml:"addr"`
	Log  LogConfig `toml:"log"`
}

// LogConfig configures the rotating server log file. An empty File logs to
// stderr only.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Store: store.Config{
			Backend: store.BackendFile,
			Dir:     filepath.Join(DataDir(), "layouts"),
		},
		Catalog: filepath.Join(Dir(), "catalog.toml"),
		Viewport: ViewportConfig{
			Width:       1280,
			Breakpoints: slices.Clone(grid.DefaultBreakpoints),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8420",
			Log: LogConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads the file at Path.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configPath over the defaults. A missing file yields the
// defaults.
func LoadFrom(configPath string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", configPath)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", configPath)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %s", configPath, undecoded[0])
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate rejects unknown backends and unusable viewport settings.
func (c Config) Validate() error {
	if c.Store.Backend != "" && !slices.Contains(store.Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Viewport.Width < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport width must not be negative")
	}
	for _, bp := range c.Viewport.Breakpoints {
		if bp.Columns < 1 || bp.MinWidth < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid breakpoint %+v", bp)
		}
	}
	return nil
}

// Columns returns the column source for the configured viewport.
func (c Config) Columns() grid.ColumnSource {
	return grid.Viewport{Width: c.Viewport.Width, Breakpoints: c.Viewport.Breakpoints}
}

// Writer returns a rotating writer for the log file, or nil when no file is
// configured.
func (l LogConfig) Writer() *lumberjack.Logger {
	if l.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// Path returns the config file location, following XDG
// (~/.config/rangedeck/config.toml).
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Dir returns the config directory.
func Dir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the data directory (~/.local/share/rangedeck).
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(fallback, appName)
	}
	return filepath.Join(home, fallback, appName)
}
