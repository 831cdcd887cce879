package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.Messages.ShowWorldBalance)
	assert.NotEmpty(t, cfg.Messages.WorldBalance)
	assert.Empty(t, cfg.SQLite.Path)
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
sqlite:
  path: /var/lib/worldpurse/money.db
messages:
  show_world_balance: false
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), data, 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/worldpurse/money.db", cfg.SQLite.Path)
	assert.False(t, cfg.Messages.ShowWorldBalance)
	// Unset keys keep their defaults.
	assert.NotEmpty(t, cfg.Messages.WorldBalance)
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("data", DefaultDBFile), cfg.SQLitePath("data"))

	cfg.SQLite.Path = "/elsewhere/money.db"
	assert.Equal(t, "/elsewhere/money.db", cfg.SQLitePath("data"))
}

func TestLoadGroupsPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
survival:
  - world_b
  - world_c
creative:
  - flatlands
  - world_c
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultGroupsFile), data, 0644))

	cfg, err := LoadGroups(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 2)
	assert.Equal(t, "survival", cfg.Groups[0].Name)
	assert.Equal(t, []string{"world_b", "world_c"}, cfg.Groups[0].Worlds)
	assert.Equal(t, "creative", cfg.Groups[1].Name)
	assert.Equal(t, []string{"flatlands", "world_c"}, cfg.Groups[1].Worlds)
}

func TestLoadGroupsMissingFile(t *testing.T) {
	cfg, err := LoadGroups(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Groups)
}

func TestLoadGroupsRejectsNonMapping(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultGroupsFile), []byte("- just\n- a list\n"), 0644))

	_, err := LoadGroups(dir)
	assert.Error(t, err)
}
