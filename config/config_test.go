package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "auto", cfg.LogFormat)
	assert.Empty(t, cfg.LastInputDir)
}

func TestLoadFileMalformedReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("log_level = [unterminated"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().LogLevel, cfg.LogLevel)
}

func TestSaveThenLoadKeepsDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.LastInputDir = dir
	cfg.LastOutputDir = filepath.Join(dir, "gone")
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dir, loaded.LastInputDir)
	assert.Empty(t, loaded.LastOutputDir, "directories that no longer exist are dropped")
	assert.Equal(t, "debug", loaded.LogLevel)
	assert.Equal(t, "auto", loaded.LogFormat)

	loaded.LastOutputDir = dir
	require.NoError(t, loaded.Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "last_output_dir")
}
