package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestColumnLetter(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ColumnLetter(tc.index), "index %d", tc.index)
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("records.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestOpenCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cohort.csv")
	content := "Sample_ID,Gender,Control/Case\ns1,F,0\ns2,M,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"cohort"}, wb.SheetNames())
	sheet, err := wb.Sheet("cohort")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, Cell{Letter: "A", Value: "Sample_ID"}, sheet.Rows[0][0])
	assert.Equal(t, Cell{Letter: "C", Value: "1"}, sheet.Rows[2][2])

	_, err = wb.Sheet("other")
	assert.Error(t, err)
}

func TestOpenTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cohort.tsv")
	content := "Sample_ID\tGender\ns1\tF\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	sheet, err := wb.Sheet("cohort")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Gender", sheet.Rows[0][1].Value)
}

func TestOpenXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cohort.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "DR"))
	require.NoError(t, f.SetSheetRow("DR", "A1", &[]interface{}{"Sample_ID", "Gender"}))
	require.NoError(t, f.SetSheetRow("DR", "A2", &[]interface{}{"s1", "F"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"DR"}, wb.SheetNames())
	sheet, err := wb.Sheet("DR")
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Sample_ID", sheet.Rows[0][0].Value)
	assert.Equal(t, "F", sheet.Rows[1][1].Value)
}

func TestSheetColumn(t *testing.T) {
	sheet := &Sheet{
		Name: "DR",
		Rows: []Row{
			{{Letter: "A", Value: "Sample_ID"}, {Letter: "B", Value: "Gender"}},
			{{Letter: "A", Value: "s1"}},
			{{Letter: "A", Value: "s2"}, {Letter: "B", Value: "M"}},
		},
	}
	assert.Equal(t, []string{"Gender", "", "M"}, sheet.Column("B"))
}
