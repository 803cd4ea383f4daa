package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 1000, config.Import.MaxBatchSize)
	assert.Equal(t, 5, config.Auth.MaxFailures)
	assert.Equal(t, "5m", config.Auth.LockoutFor)
	assert.False(t, config.IsProduction())
}

func TestLoadFromFiles(t *testing.T) {
	t.Run("later files override earlier files", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.toml")
		second := filepath.Join(dir, "second.toml")

		require.NoError(t, os.WriteFile(first, []byte("[server]\nport = 9000\nhost = \"0.0.0.0\"\n"), 0644))
		require.NoError(t, os.WriteFile(second, []byte("[server]\nport = 9100\n"), 0644))

		config, err := LoadFromFiles(first, second)
		require.NoError(t, err)
		assert.Equal(t, 9100, config.Server.Port)
		assert.Equal(t, "0.0.0.0", config.Server.Host, "unset keys keep earlier values")
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("env overrides files", func(t *testing.T) {
		t.Setenv("TORQUE_SERVER_PORT", "9999")
		t.Setenv("TORQUE_IMPORT_MAX_BATCH_SIZE", "50")

		config, err := LoadFromFiles()
		require.NoError(t, err)
		assert.Equal(t, 9999, config.Server.Port)
		assert.Equal(t, 50, config.Import.MaxBatchSize)
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 7777, "example.local")
	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "example.local", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "example.local", config.Server.Host)
}
