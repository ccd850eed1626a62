package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bamsammich/treecopy/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "treecopy")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Workers)
	assert.Nil(t, cfg.Defaults.Conflict)
	assert.Nil(t, cfg.Defaults.Audit)
}

func TestLoad_FullConfig(t *testing.T) {
	writeConfig(t, `
[defaults]
workers = 16
buffer_size = "1M"
conflict = "overwrite"
include_special = true
audit = false

[theme]
green = "#00ff00"
red = "#ff0000"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Workers)
	assert.Equal(t, 16, *cfg.Defaults.Workers)

	require.NotNil(t, cfg.Defaults.BufferSize)
	assert.Equal(t, "1M", *cfg.Defaults.BufferSize)

	require.NotNil(t, cfg.Defaults.Conflict)
	assert.Equal(t, "overwrite", *cfg.Defaults.Conflict)

	require.NotNil(t, cfg.Defaults.IncludeSpecial)
	assert.True(t, *cfg.Defaults.IncludeSpecial)

	require.NotNil(t, cfg.Defaults.Audit)
	assert.False(t, *cfg.Defaults.Audit)

	require.NotNil(t, cfg.Theme.Green)
	assert.Equal(t, "#00ff00", *cfg.Theme.Green)
	require.NotNil(t, cfg.Theme.Red)
	assert.Equal(t, "#ff0000", *cfg.Theme.Red)
	assert.Nil(t, cfg.Theme.Muted)
}

func TestLoad_PartialConfig(t *testing.T) {
	writeConfig(t, `
[defaults]
conflict = "cancel"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.Defaults.Conflict)
	assert.Equal(t, "cancel", *cfg.Defaults.Conflict)

	// Unset fields should remain nil.
	assert.Nil(t, cfg.Defaults.Workers)
	assert.Nil(t, cfg.Defaults.BufferSize)
	assert.Nil(t, cfg.Defaults.IncludeSpecial)
}

func TestLoad_InvalidTOML(t *testing.T) {
	writeConfig(t, "invalid [[[")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	writeConfig(t, `
[defaults]
wokers = 4
`)

	_, err := config.Load()
	var unknown *config.UnknownKeyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "defaults.wokers", unknown.Key)
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[defaults]\nworkers = 2\n"), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Defaults.Workers)
	assert.Equal(t, 2, *cfg.Defaults.Workers)

	cfg, err = config.LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Workers)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/treecopy/config.toml", config.Path())
}
