// Package ruleset loads the per-worksheet transformation rules from a JSON
// configuration file. The loaded Ruleset is immutable and passed explicitly
// into the header resolver, row transformer and emitters.
package ruleset

import (
	"encoding/json"
	"fmt"
	"os"

	"phenomatrix/internal/errs"
)

// CaseControlCoding selects which integer pair encodes case/control for a
// worksheet. The processing scripts historically disagreed on this mapping,
// so it is configurable per worksheet instead of fixed.
type CaseControlCoding string

const (
	// CodingCaseTwo is CASE=2 / CONTROL=1 (the reference configuration).
	CodingCaseTwo CaseControlCoding = "case2"
	// CodingCaseOne is CASE=1 / CONTROL=2.
	CodingCaseOne CaseControlCoding = "case1"
)

// Sheet holds the rules for a single worksheet.
type Sheet struct {
	Name                string
	HasHeaderRow        bool
	QualifiedColumns    map[string]bool
	IgnoredColumns      map[string]bool
	SplitColumns        map[string]bool
	QuantitativeColumns map[string]bool
	YesNoColumns        map[string]bool
	BlankValueAllowed   map[string]bool
	// QualifiedDiseaseTypes is the whitelist for the Disease Type column.
	// Empty means no disease-type handling on this sheet.
	QualifiedDiseaseTypes map[string]bool
	// ColumnRemap renames columns at emission time only; records are keyed
	// by original column names throughout processing.
	ColumnRemap map[string]string
	// ColumnLetters maps column names directly to worksheet letters for
	// sheets without a header row.
	ColumnLetters map[string]string
	Coding        CaseControlCoding
	// OverrideControlCase derives case/control from the retinopathy and
	// macular-edema cells of the same row instead of trusting the recorded
	// Control/Case label.
	OverrideControlCase bool
	// SplitDiagnosis one-hot expands the diagnosis column instead of
	// emitting a single case/control field.
	SplitDiagnosis bool
}

// BlankAllowed reports whether an unrecognized or blank cell in the given
// column is tolerated (coerced to NA) rather than fatal.
func (s *Sheet) BlankAllowed(column string) bool {
	return s.BlankValueAllowed[column]
}

// Ruleset is the full configuration for one input workbook.
type Ruleset struct {
	QualifiedSheetNames []string
	SheetsToProcess     []string
	// DatasetName prefixes all output file names, e.g. "Flinders_dataset_batch_2".
	DatasetName string

	sheets map[string]*Sheet
}

// raw mirrors the JSON layout of the ruleset file.
type raw struct {
	QualifiedSheetNames []string                     `json:"qualified_sheet_names"`
	SheetsToProcess     []string                     `json:"sheets_to_process"`
	DatasetName         string                       `json:"dataset_name"`
	HasHeaderRow        map[string]bool              `json:"worksheet_name_to_has_header_row"`
	IgnoreColumns       map[string][]string          `json:"ignore_column_lookup"`
	QualifiedColumns    map[string][]string          `json:"worksheet_name_to_qualified_column_name_list"`
	SplitColumns        map[string][]string          `json:"worksheet_name_to_column_name_to_be_split_list"`
	QuantitativeCols    map[string][]string          `json:"worksheet_name_to_column_name_to_be_quantitative_values_list"`
	YesNoColumns        map[string][]string          `json:"worksheet_name_to_column_name_yes_no"`
	BlankValueAllowed   map[string]map[string]bool   `json:"blank_value_allowed"`
	QualifiedDiseaseTyp map[string][]string          `json:"qualified_disease_type_lookup"`
	ColumnRemap         map[string]map[string]string `json:"column_name_conversion_lookup"`
	ColumnLetters       map[string]map[string]string `json:"worksheet_name_to_column_letter_lookup"`
	CaseControlCoding   map[string]string            `json:"case_control_coding"`
	OverrideControlCase bool                         `json:"override_control_case"`
	SplitDiagnosis      bool                         `json:"split_diagnosis"`
}

// Load reads and validates the ruleset JSON file. The file is decoded with
// encoding/json directly: sheet and column names are case-sensitive lookup
// keys, and config loaders that fold key case would corrupt them.
func Load(path string) (*Ruleset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ConfigInvalid("ruleset file not found: %s", path)
		}
		return nil, errs.Wrap(err, fmt.Sprintf("read ruleset %s", path))
	}
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, errs.Wrap(err, fmt.Sprintf("parse ruleset %s", path))
	}
	return build(&r)
}

func build(r *raw) (*Ruleset, error) {
	rs := &Ruleset{
		QualifiedSheetNames: r.QualifiedSheetNames,
		SheetsToProcess:     r.SheetsToProcess,
		DatasetName:         r.DatasetName,
		sheets:              make(map[string]*Sheet),
	}
	if len(rs.SheetsToProcess) == 0 {
		return nil, errs.ConfigInvalid("ruleset declares no sheets_to_process")
	}
	qualified := toSet(r.QualifiedSheetNames)
	for _, name := range rs.SheetsToProcess {
		if !qualified[name] {
			return nil, errs.ConfigInvalid("sheet '%s' is listed in sheets_to_process but not in qualified_sheet_names", name)
		}
		sheet, err := buildSheet(name, r)
		if err != nil {
			return nil, err
		}
		rs.sheets[name] = sheet
	}
	return rs, nil
}

func buildSheet(name string, r *raw) (*Sheet, error) {
	hasHeader, ok := r.HasHeaderRow[name]
	if !ok {
		return nil, errs.ConfigInvalid("ruleset is missing worksheet_name_to_has_header_row entry for sheet '%s'", name)
	}
	cols, ok := r.QualifiedColumns[name]
	if !ok {
		return nil, errs.ConfigInvalid("ruleset is missing worksheet_name_to_qualified_column_name_list entry for sheet '%s'", name)
	}
	coding := CodingCaseTwo
	if c, ok := r.CaseControlCoding[name]; ok {
		switch CaseControlCoding(c) {
		case CodingCaseTwo, CodingCaseOne:
			coding = CaseControlCoding(c)
		default:
			return nil, errs.ConfigInvalid("unknown case_control_coding '%s' for sheet '%s'", c, name)
		}
	}
	if !hasHeader && len(r.ColumnLetters[name]) == 0 {
		return nil, errs.ConfigInvalid("sheet '%s' has no header row and no worksheet_name_to_column_letter_lookup entry", name)
	}
	return &Sheet{
		Name:                  name,
		HasHeaderRow:          hasHeader,
		QualifiedColumns:      toSet(cols),
		IgnoredColumns:        toSet(r.IgnoreColumns[name]),
		SplitColumns:          toSet(r.SplitColumns[name]),
		QuantitativeColumns:   toSet(r.QuantitativeCols[name]),
		YesNoColumns:          toSet(r.YesNoColumns[name]),
		BlankValueAllowed:     copyBoolMap(r.BlankValueAllowed[name]),
		QualifiedDiseaseTypes: toSet(r.QualifiedDiseaseTyp[name]),
		ColumnRemap:           copyStringMap(r.ColumnRemap[name]),
		ColumnLetters:         copyStringMap(r.ColumnLetters[name]),
		Coding:                coding,
		OverrideControlCase:   r.OverrideControlCase,
		SplitDiagnosis:        r.SplitDiagnosis,
	}, nil
}

// Sheet returns the rules for the named worksheet. It is a configuration
// error to ask for a sheet the ruleset does not cover.
func (r *Ruleset) Sheet(name string) (*Sheet, error) {
	s, ok := r.sheets[name]
	if !ok {
		return nil, errs.ConfigInvalid("ruleset has no entry for sheet '%s'", name)
	}
	return s, nil
}

// ShouldProcess reports whether the named worksheet is both qualified and
// selected for processing.
func (r *Ruleset) ShouldProcess(name string) bool {
	_, ok := r.sheets[name]
	return ok
}

// IsQualified reports whether the named worksheet is known to the ruleset.
func (r *Ruleset) IsQualified(name string) bool {
	for _, q := range r.QualifiedSheetNames {
		if q == name {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
