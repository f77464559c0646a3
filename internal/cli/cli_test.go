package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcollector/internal/collector"
	"netcollector/internal/config"
	"netcollector/internal/repository/sqlite"
)

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "netcollector v")
}

func TestRegisterCollectorsFollowsConfig(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.Collectors.SSHKeys = config.SSHKeysConfig{Enabled: true, Dirs: []string{t.TempDir()}}
	cfg.Collectors.Filesystem = config.FilesystemConfig{Enabled: true, Roots: []string{t.TempDir()}}
	cfg.Collectors.Network.Enabled = false

	runner := collector.NewRunner(store)
	require.NoError(t, registerCollectors(runner, cfg))

	// Registering again trips the duplicate source name check.
	assert.Error(t, registerCollectors(runner, cfg))
}

func TestLoadConfigFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: /tmp/override.db\n"), 0o644))

	flags.configPath = path
	t.Cleanup(func() { flags.configPath = "" })

	cfg, loadedPath, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, path, loadedPath)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
}
