// Package source provides the tabular input consumed by the matrix engine:
// workbooks made of named sheets, sheets made of ordered rows, rows made of
// cells addressed by spreadsheet column letter.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Cell is a single worksheet cell. Value is the pre-evaluated display text;
// formulas are assumed resolved by the producing application.
type Cell struct {
	Letter string
	Value  string
}

// Row is an ordered sequence of cells.
type Row []Cell

// Sheet is a fully materialized worksheet. The engine scans it twice (the
// unique-value inventory pass, then the row pass), so rows are held in
// memory rather than streamed.
type Sheet struct {
	Name string
	Rows []Row
}

// Column returns the cell values of the given column letter in row order,
// one entry per row ("" where the row has no such cell).
func (s *Sheet) Column(letter string) []string {
	out := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		for _, cell := range row {
			if cell.Letter == letter {
				out[i] = cell.Value
				break
			}
		}
	}
	return out
}

// Workbook enumerates sheets by name.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (*Sheet, error)
	Close() error
}

// Open selects a workbook implementation by file extension: .xlsx opens a
// spreadsheet workbook, .csv/.tsv a single-sheet delimited file.
func Open(path string) (Workbook, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return OpenXLSX(path)
	case ".csv", ".tsv":
		return OpenDelimited(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (expected .xlsx, .csv or .tsv)", ext)
	}
}

// ColumnLetter converts a 0-based column index to its spreadsheet letter
// (A, B, ..., Z, AA, AB, ...).
func ColumnLetter(index int) string {
	result := ""
	index++
	for index > 0 {
		index--
		result = string(rune('A'+(index%26))) + result
		index /= 26
	}
	return result
}
