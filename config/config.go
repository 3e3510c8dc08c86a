// Package config reads the sandbox settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// DefaultPath is the settings file read from the working directory.
const DefaultPath = "sandbox.yaml"

// Config represents the sandbox configuration.
type Config struct {
	Loader   LoaderConfig   `yaml:"loader"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
	Watch    WatchConfig    `yaml:"watch"`
	Scene    SceneConfig    `yaml:"scene"`
	Renderer RendererConfig `yaml:"renderer"`
	Profiler ProfilerConfig `yaml:"profiler"`
}

// LoaderConfig configures the resource loader's worker pool.
type LoaderConfig struct {
	Workers        int           `yaml:"workers"`
	QueueSize      int           `yaml:"queue_size"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxTextureSize int           `yaml:"max_texture_size"` // 0 keeps textures at full size
}

// HistoryConfig configures undo.
type HistoryConfig struct {
	Depth int `yaml:"depth"` // 0 disables undo
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// WatchConfig configures hot reload of resource files.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// SceneConfig names the scene opened at startup.
type SceneConfig struct {
	Path string `yaml:"path"`
}

// RendererConfig sizes the render targets whose memory is tracked.
type RendererConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	MSAA   int `yaml:"msaa"` // 1, 4, 8 or 16
}

// ProfilerConfig configures the statistics log.
type ProfilerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when no settings file exists.
//
// Returns:
//   - *Config: the default configuration
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			Workers:     max(runtime.NumCPU()-1, 1),
			QueueSize:   256,
			IdleTimeout: time.Second,
		},
		History: HistoryConfig{
			Depth: 64,
		},
		Log: LogConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Renderer: RendererConfig{
			Width:  1280,
			Height: 720,
			MSAA:   4,
		},
		Profiler: ProfilerConfig{
			Interval: time.Second,
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file is
// not an error.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - *Config: the configuration
//   - error: a wrapped read or parse error, or *common.PreconditionError for an out-of-range value
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
//
// Parameters:
//   - cfg: the configuration
//   - path: the destination file
//
// Returns:
//   - error: a wrapped marshal or write error
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Validate checks every value is in range.
//
// Returns:
//   - error: *common.PreconditionError naming the first bad field
func (c *Config) Validate() error {
	switch {
	case c.Loader.Workers < 1:
		return common.Preconditionf("loader.workers", "must be at least 1, got %d", c.Loader.Workers)
	case c.Loader.QueueSize < 0:
		return common.Preconditionf("loader.queue_size", "must not be negative, got %d", c.Loader.QueueSize)
	case c.Loader.IdleTimeout <= 0:
		return common.Preconditionf("loader.idle_timeout", "must be positive, got %s", c.Loader.IdleTimeout)
	case c.Loader.MaxTextureSize < 0:
		return common.Preconditionf("loader.max_texture_size", "must not be negative, got %d", c.Loader.MaxTextureSize)
	case c.History.Depth < 0:
		return common.Preconditionf("history.depth", "must not be negative, got %d", c.History.Depth)
	case c.Watch.Debounce < 0:
		return common.Preconditionf("watch.debounce", "must not be negative, got %s", c.Watch.Debounce)
	case c.Renderer.Width < 0 || c.Renderer.Height < 0:
		return common.Preconditionf("renderer.width", "size must not be negative, got %dx%d", c.Renderer.Width, c.Renderer.Height)
	case c.Profiler.Interval <= 0:
		return common.Preconditionf("profiler.interval", "must be positive, got %s", c.Profiler.Interval)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Renderer.MSAA {
	case 1, 4, 8, 16:
	default:
		return common.Preconditionf("renderer.msaa", "must be 1, 4, 8 or 16, got %d", c.Renderer.MSAA)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
//
// Returns:
//   - slog.Level: the level
//   - error: *common.PreconditionError for an unknown name
func (c LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, common.Preconditionf("log.level", "unknown level %q", c.Level)
	}
}
