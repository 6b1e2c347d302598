package matrix

import (
	"fmt"
	"path/filepath"
	"strings"

	"phenomatrix/internal/logging"
	"phenomatrix/internal/ruleset"
	"phenomatrix/internal/source"
)

// SheetResult summarizes the transform of one worksheet.
type SheetResult struct {
	Sheet            string
	Rows             int
	Subjects         int
	BinaryFile       string
	QuantitativeFile string
}

// Engine runs the full transform over a workbook: header resolution,
// unique-value inventory, row pass and matrix emission, one worksheet at a
// time.
type Engine struct {
	rs     *ruleset.Ruleset
	log    *logging.Logger
	outdir string
}

// NewEngine creates an engine writing outputs into outdir.
func NewEngine(rs *ruleset.Ruleset, log *logging.Logger, outdir string) *Engine {
	return &Engine{rs: rs, log: log, outdir: outdir}
}

// Run processes every qualified, selected worksheet of the workbook.
func (e *Engine) Run(wb source.Workbook) ([]SheetResult, error) {
	var results []SheetResult
	for _, name := range wb.SheetNames() {
		e.log.Info("Found sheet name '%s'", name)
		if !e.rs.IsQualified(name) {
			e.log.Warn("Found unqualified sheet named '%s'", name)
			continue
		}
		if !e.rs.ShouldProcess(name) {
			e.log.Warn("Will not process worksheet named '%s'", name)
			continue
		}
		e.log.Info("Will process worksheet '%s'", name)

		sheet, err := wb.Sheet(name)
		if err != nil {
			return results, err
		}
		result, err := e.ProcessSheet(sheet)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// ProcessSheet transforms one worksheet and writes its two matrices. The
// inventory pass completes in full before the row pass starts: the one-hot
// assignment reads the inventory per row.
func (e *Engine) ProcessSheet(sheet *source.Sheet) (*SheetResult, error) {
	rs, err := e.rs.Sheet(sheet.Name)
	if err != nil {
		return nil, err
	}

	var hdr *Header
	if rs.HasHeaderRow {
		if len(sheet.Rows) == 0 {
			return nil, fmt.Errorf("worksheet '%s' is empty", sheet.Name)
		}
		e.log.Info("Found header row in row '1' of worksheet '%s' - will process now", sheet.Name)
		hdr, err = ResolveHeader(sheet.Rows[0], rs, e.log)
	} else {
		hdr, err = HeaderFromRuleset(rs)
	}
	if err != nil {
		return nil, err
	}

	inv := BuildInventory(sheet, rs, hdr, e.log)
	tr := NewTransformer(rs, hdr, inv, e.log)

	rows := 0
	for i, row := range sheet.Rows {
		rowNum := i + 1
		rows++
		if rowNum == 1 && rs.HasHeaderRow {
			continue
		}
		if err := tr.ProcessRow(row, rowNum); err != nil {
			return nil, err
		}
	}
	e.log.Info("Processed '%d' rows in worksheet '%s'", rows, sheet.Name)

	table := tr.Table()
	base := filepath.Join(e.outdir, e.outputBase(sheet.Name))
	result := &SheetResult{
		Sheet:            sheet.Name,
		Rows:             rows,
		Subjects:         table.Subjects(),
		BinaryFile:       base + "_binary.txt",
		QuantitativeFile: base + "_quantitative.txt",
	}

	lines, err := WriteMatrixFile(result.BinaryFile, table, BinaryMatrix, rs)
	if err != nil {
		return nil, err
	}
	e.log.Info("Wrote '%d' lines to output file '%s'", lines, result.BinaryFile)

	lines, err = WriteMatrixFile(result.QuantitativeFile, table, QuantitativeMatrix, rs)
	if err != nil {
		return nil, err
	}
	e.log.Info("Wrote '%d' lines to output file '%s'", lines, result.QuantitativeFile)

	return result, nil
}

// outputBase is the per-sheet output file stem: the configured dataset
// prefix plus the normalized sheet name.
func (e *Engine) outputBase(sheetName string) string {
	normalized := strings.ToLower(strings.ReplaceAll(sheetName, " ", "_"))
	if e.rs.DatasetName != "" {
		return e.rs.DatasetName + "_" + normalized
	}
	return normalized
}
