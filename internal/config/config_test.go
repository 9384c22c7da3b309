package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"code.assetex.io/assetex/internal/config"
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefaultAndRead(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, config.WriteDefault(dir))
	// a second write must not clobber
	require.Error(t, config.WriteDefault(dir))

	cfg, err := config.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, config.NewDefaultConfig(), *cfg)
}

func TestReadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()

	raw := `
Environment = "prod"

[Storage]
  Level = "debug"
  Backend = "memory"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(raw), 0o600))

	cfg, err := config.Read(dir)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, storage.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, logging.DebugLevel, cfg.Storage.Level.Get())
	// untouched sections keep their defaults
	assert.Equal(t, config.NewDefaultConfig().Matching, cfg.Matching)
}

func TestReadMissingFile(t *testing.T) {
	_, err := config.Read(t.TempDir())
	require.Error(t, err)
}
