package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
loader:
  workers: 3
  idle_timeout: 250ms
  max_texture_size: 2048
history:
  depth: 0
log:
  level: debug
watch:
  enabled: true
scene:
  path: scenes/demo.xml
profiler:
  interval: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Loader.Workers)
	assert.Equal(t, 256, cfg.Loader.QueueSize, "unset fields keep their default")
	assert.Equal(t, 250*time.Millisecond, cfg.Loader.IdleTimeout)
	assert.Equal(t, 2048, cfg.Loader.MaxTextureSize)
	assert.Equal(t, 0, cfg.History.Depth)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, "scenes/demo.xml", cfg.Scene.Path)
	assert.Equal(t, 5*time.Second, cfg.Profiler.Interval)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "loader: [nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")

	_, err = Load(writeConfig(t, "loader:\n  wrokers: 2\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoadOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{"workers", "loader:\n  workers: 0\n", "loader.workers"},
		{"queue", "loader:\n  queue_size: -1\n", "loader.queue_size"},
		{"history", "history:\n  depth: -2\n", "history.depth"},
		{"level", "log:\n  level: loud\n", "log.level"},
		{"msaa", "renderer:\n  msaa: 3\n", "renderer.msaa"},
		{"interval", "profiler:\n  interval: 0s\n", "profiler.interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.text))
			require.True(t, errors.Is(err, common.ErrPrecondition), "got %v", err)
			var pe *common.PreconditionError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Scene.Path = "demo.xml"
	cfg.Watch.Enabled = true
	cfg.Renderer.MSAA = 8

	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Save(cfg, path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSlogLevel(t *testing.T) {
	for text, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := LogConfig{Level: text}.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got, text)
	}
}
