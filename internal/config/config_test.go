package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "docbind.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "The Complete Guide", cfg.Project.Title)
	assert.Equal(t, ".", cfg.Project.Dir)
	assert.Equal(t, "complete-guide.md", cfg.Build.Output)
	assert.Equal(t, "docbind.db", cfg.History.DB)
	assert.False(t, cfg.Build.Strict)
	assert.Empty(t, cfg.Build.Sections)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docbind.yaml")
	data := `
project:
  title: Edge Guide
build:
  output: out.md
  strict: true
  sections:
    - a.md
    - b.md
history:
  db: builds.db
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Edge Guide", cfg.Project.Title)
	assert.Equal(t, "out.md", cfg.Build.Output)
	assert.True(t, cfg.Build.Strict)
	assert.Equal(t, []string{"a.md", "b.md"}, cfg.Build.Sections)
	assert.Equal(t, "builds.db", cfg.History.DB)
	// Untouched fields fall back to defaults.
	assert.Equal(t, ".", cfg.Project.Dir)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DOCBIND_TITLE", "Env Guide")
	t.Setenv("DOCBIND_OUTPUT", "env.md")
	t.Setenv("DOCBIND_DB", "env.db")
	t.Setenv("DOCBIND_STRICT", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "docbind.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Env Guide", cfg.Project.Title)
	assert.Equal(t, "env.md", cfg.Build.Output)
	assert.Equal(t, "env.db", cfg.History.DB)
	assert.True(t, cfg.Build.Strict)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docbind.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
