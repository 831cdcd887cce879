// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the config file name inside the data directory.
	DefaultConfigFile = "config.yaml"
	// DefaultGroupsFile is the world groups file name.
	DefaultGroupsFile = "groups.yaml"
	// DefaultDBFile is the SQLite database file name.
	DefaultDBFile = "worldpurse.db"
	// DefaultLegacyDir is the directory the legacy per-player files live in.
	DefaultLegacyDir = "userdata"
)

// Config holds static configuration (read-only after init).
type Config struct {
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Messages MessagesConfig `yaml:"messages,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite store.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. Empty means the
	// default file inside the data directory.
	Path string `yaml:"path,omitempty"`
}

// MessagesConfig controls the balance notice a host shows when a player
// arrives in a world with a different active bucket. Formatting and
// localization are the host's concern; this core only carries the toggle
// and template through.
type MessagesConfig struct {
	ShowWorldBalance bool   `yaml:"show_world_balance"`
	WorldBalance     string `yaml:"world_balance,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Messages: MessagesConfig{
			ShowWorldBalance: true,
			WorldBalance:     "Your balance in this world is [balance].",
		},
	}
}

// Load loads configuration from the data directory. A missing config
// file yields the defaults.
func Load(dataDir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dataDir, DefaultConfigFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// SQLitePath returns the database path, applying the default when the
// config leaves it empty.
func (c *Config) SQLitePath(dataDir string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(dataDir, DefaultDBFile)
}

// GroupsFilePath returns the path to the world groups file.
func GroupsFilePath(dataDir string) string {
	return filepath.Join(dataDir, DefaultGroupsFile)
}

// LegacyDir returns the path of the legacy per-player store.
func LegacyDir(dataDir string) string {
	return filepath.Join(dataDir, DefaultLegacyDir)
}
