package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type xlsxWorkbook struct {
	path string
	file *excelize.File
}

// OpenXLSX opens an Excel workbook.
func OpenXLSX(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	return &xlsxWorkbook{path: path, file: f}, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *xlsxWorkbook) Sheet(name string) (*Sheet, error) {
	raw, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	sheet := &Sheet{Name: name, Rows: make([]Row, len(raw))}
	for i, cells := range raw {
		row := make(Row, 0, len(cells))
		for j, value := range cells {
			row = append(row, Cell{Letter: ColumnLetter(j), Value: value})
		}
		sheet.Rows[i] = row
	}
	return sheet, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}
