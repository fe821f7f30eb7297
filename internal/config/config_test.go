package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardrift/server/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "Stardrift", cfg.Server.Name)
	assert.Equal(t, 200*time.Millisecond, cfg.Server.Tick)
	assert.NotZero(t, cfg.Server.StartTime)

	assert.Equal(t, int64(20771), cfg.World.Seed)
	assert.Equal(t, 512.0, cfg.World.CellSpan)

	assert.Equal(t, 2, cfg.Streaming.ActiveRadius)
	assert.Equal(t, 4, cfg.Streaming.PreloadRadius)
	assert.Equal(t, 6, cfg.Streaming.UnloadDistance)
	assert.Less(t, cfg.Streaming.ActiveRadius, cfg.Streaming.UnloadDistance)

	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Database.Lifetime)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
tick_rate = "50ms"

[world]
seed = 31337

[streaming]
active_radius = 3
preload_radius = 5
unload_distance = 9

[flight]
enabled = false
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.Server.Tick)
	assert.Equal(t, int64(31337), cfg.World.Seed)
	assert.Equal(t, 3, cfg.Streaming.ActiveRadius)
	assert.Equal(t, 5, cfg.Streaming.PreloadRadius)
	assert.Equal(t, 9, cfg.Streaming.UnloadDistance)
	assert.False(t, cfg.Flight.Enabled)

	// Untouched sections keep their defaults.
	assert.Equal(t, "Stardrift", cfg.Server.Name)
	assert.Equal(t, 512.0, cfg.World.CellSpan)
	assert.Equal(t, 8, cfg.Streaming.LoadBudget)
	assert.Equal(t, 256, cfg.Cache.Sprites)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	_, err := config.Load(writeConfig(t, "[server]\ntick_rate = \"fast\"\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "[server]\ntick_rate = \"0s\"\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "[server]\ntick_rate = \"-100ms\"\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "[database]\nconn_lifetime = \"sometimes\"\n"))
	assert.Error(t, err)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "[server\nname ="))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
