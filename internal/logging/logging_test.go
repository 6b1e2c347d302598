package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := New(LevelInfo, path)
	require.NoError(t, err)

	l.Info("processed '%d' rows", 3)
	l.Debug("never written at info level")
	l.Close()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO] processed '3' rows")
	assert.NotContains(t, string(b), "never written")
}

func TestLoggerLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l, err := New(LevelWarn, path)
	require.NoError(t, err)

	l.Warn("kept")
	l.Info("dropped")
	l.Close()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[WARN] kept")
	assert.NotContains(t, string(b), "dropped")
}
