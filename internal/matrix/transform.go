package matrix

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"phenomatrix/internal/errs"
	"phenomatrix/internal/logging"
	"phenomatrix/internal/ruleset"
	"phenomatrix/internal/source"
)

// Transformer walks data rows and applies the recoding rule of every
// recognized column, accumulating per-subject binary and quantitative
// records. Row-local derivation state never leaks across rows.
type Transformer struct {
	rs       *ruleset.Sheet
	coding   Coding
	hdr      *Header
	inv      *Inventory
	dispatch *DispatchTable
	log      *logging.Logger
	table    *SubjectTable
}

// NewTransformer creates a transformer for one sheet. The inventory must be
// fully built before the first ProcessRow call.
func NewTransformer(rs *ruleset.Sheet, hdr *Header, inv *Inventory, log *logging.Logger) *Transformer {
	return &Transformer{
		rs:       rs,
		coding:   CodingFor(rs.Coding),
		hdr:      hdr,
		inv:      inv,
		dispatch: BuildDispatch(rs),
		log:      log,
		table:    NewSubjectTable(),
	}
}

// Table returns the accumulated subject records.
func (t *Transformer) Table() *SubjectTable {
	return t.table
}

// rowState holds the derivation state of the row being processed: the
// current subject, the eye-lateral staging carries and the first-seen
// paired-eye readings. Reset for every row.
type rowState struct {
	sampleID  string
	carries   [carryCount]string
	pairFirst map[string]float64
}

// ProcessRow applies the dispatch to every cell of one data row.
func (t *Transformer) ProcessRow(row source.Row, rowNum int) error {
	st := &rowState{pairFirst: make(map[string]float64)}

	for _, cell := range row {
		name, ok := t.hdr.Name(cell.Letter)
		if !ok {
			// Column letter with no header mapping: extra/unregistered
			// column, skipped.
			continue
		}
		rule, ok := t.dispatch.Resolve(name)
		if !ok {
			return errs.ConfigInvalid("unexpected column '%s' at row '%d' in sheet '%s'", name, rowNum, t.rs.Name)
		}

		if rule.Kind == RuleSampleID {
			id := strings.TrimSpace(cell.Value)
			if id == "" {
				t.log.Warn("Found Sample_ID with no value at row '%d' in worksheet '%s'", rowNum, t.rs.Name)
				return nil
			}
			st.sampleID = id
			t.table.Ensure(id)
			continue
		}
		if st.sampleID == "" {
			t.log.Debug("Skipping column '%s' at row '%d' in worksheet '%s': no Sample_ID seen yet", name, rowNum, t.rs.Name)
			continue
		}

		var err error
		switch rule.Kind {
		case RuleEyeCarry:
			st.carries[rule.Carry] = strings.TrimSpace(cell.Value)
		case RuleCaseControl:
			err = t.transformCaseControl(st, name, cell.Value, rowNum)
		case RuleDiagnosis:
			t.transformDiagnosis(st, name, cell.Value)
		case RuleGender:
			t.transformGender(st, cell.Value)
		case RuleDualTension:
			err = t.transformDualTension(st, name, cell.Value, rowNum)
		case RuleSplit:
			t.transformSplit(st, name, cell.Value, rowNum)
		case RuleQuantitative:
			err = t.transformQuantitative(st, rule, name, cell.Value, rowNum)
		case RuleYesNo:
			t.transformYesNo(st, name, cell.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// transformCaseControl derives the case/control value. When the override
// policy is enabled the recorded label is ignored entirely and the value is
// derived from the row's retinopathy and macular-edema carries.
func (t *Transformer) transformCaseControl(st *rowState, column, cellValue string, rowNum int) error {
	binary := t.table.Binary(st.sampleID)

	if t.rs.OverrideControlCase {
		retinopathyOD := st.carries[carryRetinopathyOD]
		retinopathyOS := st.carries[carryRetinopathyOS]
		macularEdemaOD := st.carries[carryMacularEdemaOD]
		macularEdemaOS := st.carries[carryMacularEdemaOS]

		var value string
		switch {
		case retinopathyOD == "No DR" && retinopathyOS == "No DR" &&
			macularEdemaOD == "No" && macularEdemaOS == "No":
			value = code(t.coding.Control)
		case unknownCarry(retinopathyOD) || unknownCarry(retinopathyOS) ||
			unknownCarry(macularEdemaOD) || unknownCarry(macularEdemaOS):
			value = NA
		default:
			value = code(t.coding.Case)
		}
		binary.Set(column, value)
		return nil
	}

	switch strings.TrimSpace(cellValue) {
	case "0":
		binary.Set(column, code(t.coding.Control))
	case "1":
		binary.Set(column, code(t.coding.Case))
	case "9":
		binary.Set(column, NA)
	default:
		if !t.rs.BlankAllowed(column) {
			return errs.DataIntegrity("found unexpected value for column '%s' at row '%d' in worksheet '%s'", column, rowNum, t.rs.Name)
		}
		binary.Set(column, NA)
	}
	return nil
}

func unknownCarry(v string) bool {
	return v == "" || v == "Unknown"
}

// transformDiagnosis recodes a single-label diagnosis column: any label
// containing "unaffected" is the control, everything else is a case. In
// split-diagnosis mode the column one-hot expands over the inventoried
// labels instead, with unaffected labels excluded from the generated set.
func (t *Transformer) transformDiagnosis(st *rowState, column, cellValue string) {
	binary := t.table.Binary(st.sampleID)
	value := strings.TrimSpace(cellValue)
	unaffected := strings.Contains(strings.ToLower(value), "unaffected")

	if t.rs.SplitDiagnosis {
		for _, unique := range t.inv.Values(column) {
			if strings.Contains(strings.ToLower(unique), "unaffected") {
				continue
			}
			field := column + "_" + unique
			if !unaffected && unique == value {
				binary.Set(field, code(t.coding.Yes))
			} else {
				binary.Set(field, code(t.coding.No))
			}
		}
		return
	}

	if unaffected {
		binary.Set(column, code(t.coding.Control))
	} else {
		binary.Set(column, code(t.coding.Case))
	}
}

// transformGender recodes the gender column; unexpected tokens are coerced
// to the gender family's 0 code with a warning.
func (t *Transformer) transformGender(st *rowState, cellValue string) {
	value := strings.ToLower(strings.TrimSpace(cellValue))
	gender := t.coding.GenderNA
	switch value {
	case "f", "female":
		gender = t.coding.Female
	case "m", "male":
		gender = t.coding.Male
	default:
		t.log.Warn("Encountered unexpected Gender value '%s' for Sample_ID '%s'", strings.TrimSpace(cellValue), st.sampleID)
	}
	t.table.Binary(st.sampleID).Set("gender", code(gender))
}

// transformDualTension maps the NTG/HTG indicator onto two binary fields at
// once; a subject is never a case on both axes.
func (t *Transformer) transformDualTension(st *rowState, column, cellValue string, rowNum int) error {
	normal := notApplicable
	high := notApplicable

	switch strings.TrimSpace(cellValue) {
	case "0":
		normal = t.coding.Case
	case "1":
		high = t.coding.Case
	case "9":
		// both not applicable
	default:
		if !t.rs.BlankAllowed(column) {
			return errs.DataIntegrity("unexpected value for column '%s' '%s' (processing Sample_ID '%s' at row '%d')",
				column, strings.TrimSpace(cellValue), st.sampleID, rowNum)
		}
	}

	binary := t.table.Binary(st.sampleID)
	binary.Set("normal_tension_glaucoma", code(normal))
	binary.Set("high_tension_glaucoma", code(high))
	return nil
}

// transformSplit one-hot expands a categorical column: every inventoried
// value becomes a sub-column set to NO except the one matching the cell,
// which gets YES. The disease-type column uses NA-propagating dispatch
// instead of blanket NO/YES.
func (t *Transformer) transformSplit(st *rowState, column, cellValue string, rowNum int) {
	binary := t.table.Binary(st.sampleID)
	value := strings.TrimSpace(cellValue)

	if isDiseaseTypeColumn(t.rs, column) {
		remapped, ok := qualifyDiseaseType(t.rs, value)
		if !ok {
			t.log.Warn("Will ignore unqualified value '%s' in worksheet '%s' column '%s' row '%d'", value, t.rs.Name, column, rowNum)
			return
		}
		if remapped != value {
			t.log.Info("Changed value '%s' to '%s'", value, remapped)
			value = remapped
		}
		for _, unique := range t.inv.Values(column) {
			if unique == NA {
				continue
			}
			field := column + "_" + unique
			switch {
			case unique == value:
				binary.Set(field, code(t.coding.Yes))
			case value == NA:
				binary.Set(field, NA)
			default:
				binary.Set(field, code(t.coding.No))
			}
		}
		return
	}

	for _, unique := range t.inv.Values(column) {
		field := column + "_" + unique
		if unique == value {
			binary.Set(field, code(t.coding.Yes))
		} else {
			binary.Set(field, code(t.coding.No))
		}
	}
}

// transformQuantitative stores a numeric/range reading and, for paired-eye
// columns, derives the arithmetic mean once both readings of the row are
// known. A literal "x" reading is unreadable and contributes NA.
func (t *Transformer) transformQuantitative(st *rowState, rule Rule, column, cellValue string, rowNum int) error {
	quant := t.table.Quantitative(st.sampleID)
	field := quantFieldName(column)
	value := strings.TrimSpace(cellValue)

	if value == "" || value == "None" {
		quant.Set(field, NA)
		if rule.Pair != nil {
			quant.Set(rule.Pair.Derived, NA)
		}
		return nil
	}

	value = removeWhitespace(value)
	quant.Set(field, value)
	if rule.Pair == nil {
		return nil
	}

	if column == rule.Pair.First {
		if strings.EqualFold(value, "x") {
			return nil
		}
		reading, err := parseReading(value)
		if err != nil {
			return errs.DataIntegrity("unparseable value '%s' for column '%s' at row '%d' in worksheet '%s'", value, column, rowNum, t.rs.Name)
		}
		st.pairFirst[rule.Pair.First] = reading
		return nil
	}

	first, ok := st.pairFirst[rule.Pair.First]
	if !ok || strings.EqualFold(value, "x") {
		quant.Set(rule.Pair.Derived, NA)
		return nil
	}
	second, err := parseReading(value)
	if err != nil {
		return errs.DataIntegrity("unparseable value '%s' for column '%s' at row '%d' in worksheet '%s'", value, column, rowNum, t.rs.Name)
	}
	mean, err := stats.Mean([]float64{first, second})
	if err != nil {
		return errs.Wrapf(err, "mean of paired readings for column '%s'", column)
	}
	quant.Set(rule.Pair.Derived, formatMean(mean))
	return nil
}

// transformYesNo recodes a Yes/No column; blanks and unrecognized tokens
// are coerced to NA.
func (t *Transformer) transformYesNo(st *rowState, column, cellValue string) {
	field := quantFieldName(column)
	value := strings.ToLower(strings.TrimSpace(cellValue))

	out := NA
	switch value {
	case "no":
		out = code(t.coding.No)
	case "yes", "1":
		out = code(t.coding.Yes)
	}
	t.table.Binary(st.sampleID).Set(field, out)
}

// parseReading parses a quantitative reading; a hyphenated range such as
// "0.8-0.9" resolves to its midpoint.
func parseReading(value string) (float64, error) {
	if idx := strings.Index(value, "-"); idx > 0 {
		low, err := strconv.ParseFloat(value[:idx], 64)
		if err != nil {
			return 0, err
		}
		high, err := strconv.ParseFloat(value[idx+1:], 64)
		if err != nil {
			return 0, err
		}
		return stats.Mean([]float64{low, high})
	}
	return strconv.ParseFloat(value, 64)
}

// formatMean renders a derived mean with at least one decimal place,
// matching the historical output format.
func formatMean(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quantFieldName is the output field name of quantitative and yes/no
// columns: lowercased with spaces replaced by underscores.
func quantFieldName(column string) string {
	return strings.ToLower(strings.ReplaceAll(column, " ", "_"))
}

func removeWhitespace(value string) string {
	return strings.Join(strings.Fields(value), "")
}
