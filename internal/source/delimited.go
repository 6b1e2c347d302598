package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// delimitedWorkbook exposes a CSV/TSV file as a workbook with a single
// sheet named after the file (extension stripped).
type delimitedWorkbook struct {
	sheet *Sheet
}

// OpenDelimited reads a .csv or .tsv file in full.
func OpenDelimited(path string) (Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		r.Comma = '\t'
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sheet := &Sheet{Name: name, Rows: make([]Row, len(records))}
	for i, record := range records {
		row := make(Row, 0, len(record))
		for j, value := range record {
			row = append(row, Cell{Letter: ColumnLetter(j), Value: value})
		}
		sheet.Rows[i] = row
	}
	return &delimitedWorkbook{sheet: sheet}, nil
}

func (w *delimitedWorkbook) SheetNames() []string {
	return []string{w.sheet.Name}
}

func (w *delimitedWorkbook) Sheet(name string) (*Sheet, error) {
	if name != w.sheet.Name {
		return nil, fmt.Errorf("no sheet named %q in delimited input", name)
	}
	return w.sheet, nil
}

func (w *delimitedWorkbook) Close() error { return nil }
