package run

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestRoundTrip(t *testing.T) {
	m := NewManifest("input.xlsx", "ruleset.json", "flinders_batch_2")
	_, err := uuid.Parse(m.RunID)
	require.NoError(t, err, "run IDs are UUIDs")

	m.AddSheet(SheetSummary{
		Name:             "DR",
		Rows:             120,
		Subjects:         118,
		BinaryFile:       "out/flinders_batch_2_dr_binary.txt",
		QuantitativeFile: "out/flinders_batch_2_dr_quantitative.txt",
	})

	outdir := t.TempDir()
	path, err := m.Write(outdir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outdir, ManifestFileName), path)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, loaded.RunID)
	assert.Equal(t, "flinders_batch_2", loaded.Dataset)
	require.Len(t, loaded.Sheets, 1)
	assert.Equal(t, "DR", loaded.Sheets[0].Name)
	assert.Equal(t, 118, loaded.Sheets[0].Subjects)
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ManifestFileName))
	assert.Error(t, err)
}
