package matrix

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phenomatrix/internal/errs"
)

func TestWriteMatrix(t *testing.T) {
	rs := newSheetRules("DR")
	rs.ColumnRemap = map[string]string{"Control/Case": "diabetic_retinopathy"}

	table := NewSubjectTable()
	table.Ensure("s1")
	table.Binary("s1").Set("Control/Case", "2")
	table.Binary("s1").Set("gender", "1")
	table.Binary("s1").Set("Macular Edema", "1")
	table.Ensure("s2")
	table.Binary("s2").Set("Control/Case", "1")
	table.Binary("s2").Set("gender", "2")
	// s2 has no Macular Edema field: filled with NA on output.

	var buf bytes.Buffer
	lines, err := WriteMatrix(&buf, table, BinaryMatrix, rs)
	require.NoError(t, err)
	assert.Equal(t, 2, lines)

	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, got, 3)
	assert.Equal(t, "ID\tdiabetic_retinopathy\tgender\tmacular_edema", got[0])
	assert.Equal(t, "s1\t2\t1\t1", got[1])
	assert.Equal(t, "s2\t1\t2\tNA", got[2])
}

func TestWriteMatrixFirstSubjectFixesFields(t *testing.T) {
	rs := newSheetRules("DR")

	table := NewSubjectTable()
	table.Ensure("s1")
	table.Binary("s1").Set("gender", "1")
	table.Ensure("s2")
	table.Binary("s2").Set("gender", "2")
	// A field only the second subject has never reaches the output.
	table.Binary("s2").Set("extra", "9")

	var buf bytes.Buffer
	_, err := WriteMatrix(&buf, table, BinaryMatrix, rs)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "extra")
}

func TestWriteMatrixMissingRecordIsFatal(t *testing.T) {
	rs := newSheetRules("DR")
	table := &SubjectTable{
		order:  []string{"ghost"},
		binary: map[string]*Record{},
		quant:  map[string]*Record{},
	}

	var buf bytes.Buffer
	_, err := WriteMatrix(&buf, table, BinaryMatrix, rs)
	require.Error(t, err)
	assert.Equal(t, "DATA_INTEGRITY", errs.GetCode(err))
}

func TestWriteMatrixFileIsByteStable(t *testing.T) {
	rs := newSheetRules("DR")
	table := NewSubjectTable()
	table.Ensure("s1")
	table.Quantitative("s1").Set("highest_iop_re", "20")
	table.Quantitative("s1").Set("Highest_IOP_Mean", "22.0")

	dir := t.TempDir()
	path := filepath.Join(dir, "out_quantitative.txt")
	lines, err := WriteMatrixFile(path, table, QuantitativeMatrix, rs)
	require.NoError(t, err)
	assert.Equal(t, 1, lines)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = WriteMatrixFile(path, table, QuantitativeMatrix, rs)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDisplayFieldName(t *testing.T) {
	assert.Equal(t, "control_case", displayFieldName("Control/Case"))
	assert.Equal(t, "glaucoma_diagnosis", displayFieldName("Glaucoma.diagnosis"))
	assert.Equal(t, "highest_iop_mean", displayFieldName("Highest_IOP_Mean"))
	assert.Equal(t, "age_related", displayFieldName("Age-Related"))
}
