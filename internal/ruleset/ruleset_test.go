package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phenomatrix/internal/errs"
)

func writeRuleset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ruleset.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validRuleset = `{
  "dataset_name": "flinders_batch_2",
  "qualified_sheet_names": ["Glaucoma", "DR", "Summary"],
  "sheets_to_process": ["Glaucoma", "DR"],
  "worksheet_name_to_has_header_row": {"Glaucoma": false, "DR": true},
  "worksheet_name_to_qualified_column_name_list": {
    "Glaucoma": ["Sample_ID", "Glaucoma.diagnosis", "NTG HTG", "VCDR_RE", "VCDR_LE"],
    "DR": ["Sample_ID", "Gender", "Control/Case", "Disease Type"]
  },
  "ignore_column_lookup": {"DR": ["Comments", "DOB"]},
  "worksheet_name_to_column_name_to_be_split_list": {"DR": ["Disease Type"]},
  "worksheet_name_to_column_name_to_be_quantitative_values_list": {"Glaucoma": ["VCDR_RE", "VCDR_LE"]},
  "worksheet_name_to_column_name_yes_no": {"DR": []},
  "blank_value_allowed": {"Glaucoma": {"NTG HTG": true}},
  "qualified_disease_type_lookup": {"DR": ["Type1", "Type2"]},
  "column_name_conversion_lookup": {"DR": {"Control/Case": "diabetic_retinopathy"}},
  "worksheet_name_to_column_letter_lookup": {
    "Glaucoma": {"Sample_ID": "A", "Glaucoma.diagnosis": "B", "NTG HTG": "C", "VCDR_RE": "D", "VCDR_LE": "E"}
  },
  "case_control_coding": {"DR": "case1"},
  "override_control_case": true,
  "split_diagnosis": false
}`

func TestLoad(t *testing.T) {
	rs, err := Load(writeRuleset(t, validRuleset))
	require.NoError(t, err)

	assert.Equal(t, "flinders_batch_2", rs.DatasetName)
	assert.True(t, rs.IsQualified("Summary"))
	assert.False(t, rs.ShouldProcess("Summary"))
	assert.True(t, rs.ShouldProcess("DR"))
	assert.False(t, rs.IsQualified("Scratch"))

	dr, err := rs.Sheet("DR")
	require.NoError(t, err)
	assert.True(t, dr.HasHeaderRow)
	assert.True(t, dr.IgnoredColumns["Comments"])
	assert.True(t, dr.SplitColumns["Disease Type"])
	assert.True(t, dr.QualifiedDiseaseTypes["Type1"])
	assert.Equal(t, "diabetic_retinopathy", dr.ColumnRemap["Control/Case"])
	assert.Equal(t, CodingCaseOne, dr.Coding)
	assert.True(t, dr.OverrideControlCase)
	assert.False(t, dr.SplitDiagnosis)

	glaucoma, err := rs.Sheet("Glaucoma")
	require.NoError(t, err)
	assert.False(t, glaucoma.HasHeaderRow)
	assert.Equal(t, "A", glaucoma.ColumnLetters["Sample_ID"])
	assert.Equal(t, CodingCaseTwo, glaucoma.Coding, "coding defaults to case2")
	assert.True(t, glaucoma.BlankAllowed("NTG HTG"))
	assert.False(t, glaucoma.BlankAllowed("VCDR_RE"))

	_, err = rs.Sheet("Summary")
	require.Error(t, err)
	assert.Equal(t, "CONFIG_INVALID", errs.GetCode(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, "CONFIG_INVALID", errs.GetCode(err))
}

func TestLoadRejectsUnlistedSheet(t *testing.T) {
	_, err := Load(writeRuleset(t, `{
	  "qualified_sheet_names": ["Glaucoma"],
	  "sheets_to_process": ["DR"],
	  "worksheet_name_to_has_header_row": {"DR": true},
	  "worksheet_name_to_qualified_column_name_list": {"DR": ["Sample_ID"]}
	}`))
	require.Error(t, err)
	assert.Equal(t, "CONFIG_INVALID", errs.GetCode(err))
}

func TestLoadRejectsMissingHeaderFlag(t *testing.T) {
	_, err := Load(writeRuleset(t, `{
	  "qualified_sheet_names": ["DR"],
	  "sheets_to_process": ["DR"],
	  "worksheet_name_to_qualified_column_name_list": {"DR": ["Sample_ID"]}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worksheet_name_to_has_header_row")
}

func TestLoadRejectsMissingColumnList(t *testing.T) {
	_, err := Load(writeRuleset(t, `{
	  "qualified_sheet_names": ["DR"],
	  "sheets_to_process": ["DR"],
	  "worksheet_name_to_has_header_row": {"DR": true}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worksheet_name_to_qualified_column_name_list")
}

func TestLoadRejectsUnknownCoding(t *testing.T) {
	_, err := Load(writeRuleset(t, `{
	  "qualified_sheet_names": ["DR"],
	  "sheets_to_process": ["DR"],
	  "worksheet_name_to_has_header_row": {"DR": true},
	  "worksheet_name_to_qualified_column_name_list": {"DR": ["Sample_ID"]},
	  "case_control_coding": {"DR": "case3"}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case_control_coding")
}

func TestLoadRejectsHeaderlessSheetWithoutLetterLookup(t *testing.T) {
	_, err := Load(writeRuleset(t, `{
	  "qualified_sheet_names": ["Glaucoma"],
	  "sheets_to_process": ["Glaucoma"],
	  "worksheet_name_to_has_header_row": {"Glaucoma": false},
	  "worksheet_name_to_qualified_column_name_list": {"Glaucoma": ["Sample_ID"]}
	}`))
	require.Error(t, err)
	assert.Equal(t, "CONFIG_INVALID", errs.GetCode(err))
}
