// Package config provides configuration management for netcollector.
//
// Config file locations (priority order):
//  1. $NETCOLLECTOR_CONFIG
//  2. ./netcollector.yaml
//  3. ~/.config/netcollector/config.yaml
//  4. /etc/netcollector/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level netcollector configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Database   DatabaseConfig   `yaml:"database"`
	Collectors CollectorsConfig `yaml:"collectors"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CollectorsConfig holds one section per collector.
type CollectorsConfig struct {
	Network    NetworkConfig    `yaml:"network"`
	SSHKeys    SSHKeysConfig    `yaml:"ssh_keys"`
	Filesystem FilesystemConfig `yaml:"filesystem"`
}

// NetworkConfig configures the nmap topology collector.
type NetworkConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Targets          []string `yaml:"targets"`
	PortRange        string   `yaml:"port_range"`
	Timeout          Duration `yaml:"timeout,omitempty"`
	ServiceDetection *bool    `yaml:"service_detection"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// SSHKeysConfig configures the SSH key inventory collector.
type SSHKeysConfig struct {
	Enabled bool     `yaml:"enabled"`
	Dirs    []string `yaml:"dirs"`
}

// FilesystemConfig configures the filesystem walk collector.
type FilesystemConfig struct {
	Enabled bool     `yaml:"enabled"`
	Roots   []string `yaml:"roots"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version:  1,
		Database: DatabaseConfig{Path: "./netcollector.db"},
		Collectors: CollectorsConfig{
			SSHKeys:    SSHKeysConfig{Enabled: true},
			Filesystem: FilesystemConfig{Enabled: false},
			Network:    NetworkConfig{Enabled: false},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Path == "" {
		c.Database.Path = "./netcollector.db"
	}
	if c.Collectors.Network.Timeout == 0 {
		c.Collectors.Network.Timeout = Duration(10 * time.Minute)
	}
	if len(c.Collectors.SSHKeys.Dirs) == 0 {
		if home := os.Getenv("HOME"); home != "" {
			c.Collectors.SSHKeys.Dirs = []string{home + "/.ssh"}
		}
	}
}

// ServiceDetectionEnabled reports whether service version probes are
// wanted. Defaults to true when the config file does not say.
func (n *NetworkConfig) ServiceDetectionEnabled() bool {
	if n.ServiceDetection == nil {
		return true
	}
	return *n.ServiceDetection
}

// Validate rejects configurations that cannot produce a useful run.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Collectors.Network.Enabled && len(c.Collectors.Network.Targets) == 0 {
		return fmt.Errorf("network collector enabled but no targets configured")
	}
	if c.Collectors.Filesystem.Enabled && len(c.Collectors.Filesystem.Roots) == 0 {
		return fmt.Errorf("filesystem collector enabled but no roots configured")
	}
	if !c.Collectors.Network.Enabled && !c.Collectors.SSHKeys.Enabled && !c.Collectors.Filesystem.Enabled {
		return fmt.Errorf("no collector enabled")
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Database: %s\nCollectors:", c.Database.Path)
	if c.Collectors.Network.Enabled {
		summary += fmt.Sprintf(" network(%d targets)", len(c.Collectors.Network.Targets))
	}
	if c.Collectors.SSHKeys.Enabled {
		summary += fmt.Sprintf(" ssh-keys(%d dirs)", len(c.Collectors.SSHKeys.Dirs))
	}
	if c.Collectors.Filesystem.Enabled {
		summary += fmt.Sprintf(" filesystem(%d roots)", len(c.Collectors.Filesystem.Roots))
	}
	return summary
}
