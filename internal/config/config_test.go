package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "./netcollector.db", cfg.Database.Path)
	assert.True(t, cfg.Collectors.SSHKeys.Enabled)
	assert.False(t, cfg.Collectors.Network.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Collectors.Network.Timeout.Duration())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netcollector.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1
database:
  path: /var/lib/netcollector/data.db
collectors:
  network:
    enabled: true
    targets:
      - 192.168.1.0/24
    port_range: "22,80,443"
    timeout: 90s
    service_detection: false
  ssh_keys:
    enabled: true
    dirs:
      - /root/.ssh
`), 0o644))

	cfg, loadedPath, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, loadedPath)
	assert.Equal(t, "/var/lib/netcollector/data.db", cfg.Database.Path)
	assert.True(t, cfg.Collectors.Network.Enabled)
	assert.Equal(t, []string{"192.168.1.0/24"}, cfg.Collectors.Network.Targets)
	assert.Equal(t, "22,80,443", cfg.Collectors.Network.PortRange)
	assert.False(t, cfg.Collectors.Network.ServiceDetectionEnabled())
	assert.Equal(t, []string{"/root/.ssh"}, cfg.Collectors.SSHKeys.Dirs)
	assert.Equal(t, 90*time.Second, cfg.Collectors.Network.Timeout.Duration())
}

func TestLoadFromPathMissing(t *testing.T) {
	_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromPathMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))
	_, _, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestServiceDetectionDefaultsOn(t *testing.T) {
	var n NetworkConfig
	assert.True(t, n.ServiceDetectionEnabled())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collectors.SSHKeys.Dirs = []string{"/root/.ssh"}
	assert.NoError(t, cfg.Validate())

	cfg.Collectors.Network.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no targets")

	cfg.Collectors.Network.Targets = []string{"10.0.0.0/24"}
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Collectors.SSHKeys.Enabled = false
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no collector enabled")
}

func TestFindConfigPathEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	t.Setenv(EnvConfigPath, path)
	assert.Equal(t, path, FindConfigPath())

	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotEqual(t, path, FindConfigPath())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Database.Path = "/tmp/nc.db"
	cfg.Collectors.Filesystem = FilesystemConfig{Enabled: true, Roots: []string{"/etc"}}
	require.NoError(t, cfg.Save(path))

	loaded, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/nc.db", loaded.Database.Path)
	assert.Equal(t, []string{"/etc"}, loaded.Collectors.Filesystem.Roots)
	assert.True(t, loaded.Collectors.Filesystem.Enabled)
}
