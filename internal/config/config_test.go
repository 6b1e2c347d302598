package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "INFO", c.LogLevel)
	assert.True(t, c.LogToFile)
	assert.Empty(t, c.RulesetFile)
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	saved := &Global{
		RulesetFile: "/data/ruleset.json",
		Outdir:      "/data/out",
		LogLevel:    "DEBUG",
		LogToFile:   false,
	}
	require.NoError(t, Save(saved, ""))
	require.FileExists(t, filepath.Join(home, ".phenomatrix", "config.yaml"))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/ruleset.json", c.RulesetFile)
	assert.Equal(t, "/data/out", c.Outdir)
	assert.Equal(t, "DEBUG", c.LogLevel)
	assert.False(t, c.LogToFile)
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: WARN\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "WARN", c.LogLevel)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PHENOMATRIX_LOG_LEVEL", "ERROR")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", c.LogLevel)
}
