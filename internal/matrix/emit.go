package matrix

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"phenomatrix/internal/errs"
	"phenomatrix/internal/ruleset"
	"phenomatrix/internal/utils"
)

// MatrixKind selects which of the two per-subject record families to emit.
type MatrixKind int

const (
	BinaryMatrix MatrixKind = iota
	QuantitativeMatrix
)

func (k MatrixKind) String() string {
	if k == QuantitativeMatrix {
		return "quantitative"
	}
	return "binary"
}

// WriteMatrix emits one tab-delimited matrix. The first subject's record
// fixes the canonical field sequence; later subjects missing a field get
// the NA sentinel in its place. The ruleset's column-name remap applies to
// the displayed header only, never to the record lookup keys. Returns the
// number of subject lines written.
func WriteMatrix(w io.Writer, table *SubjectTable, kind MatrixKind, rs *ruleset.Sheet) (int, error) {
	records := table.Binary
	if kind == QuantitativeMatrix {
		records = table.Quantitative
	}

	bw := bufio.NewWriter(w)
	var fieldKeys []string
	lines := 0

	for _, sampleID := range table.Order() {
		record := records(sampleID)
		if record == nil {
			return lines, errs.DataIntegrity("did not find sample_id '%s' in the %s lookup for worksheet '%s'", sampleID, kind, rs.Name)
		}
		lines++

		if lines == 1 {
			fieldKeys = record.Keys()
			header := make([]string, 0, len(fieldKeys)+1)
			header = append(header, "ID")
			for _, key := range fieldKeys {
				display := key
				if remapped, ok := rs.ColumnRemap[key]; ok {
					display = remapped
				}
				header = append(header, displayFieldName(display))
			}
			if _, err := fmt.Fprintln(bw, strings.Join(header, "\t")); err != nil {
				return lines, err
			}
		}

		out := make([]string, 0, len(fieldKeys)+1)
		out = append(out, sampleID)
		for _, key := range fieldKeys {
			if value, ok := record.Get(key); ok {
				out = append(out, value)
			} else {
				out = append(out, NA)
			}
		}
		if _, err := fmt.Fprintln(bw, strings.Join(out, "\t")); err != nil {
			return lines, err
		}
	}
	return lines, bw.Flush()
}

// WriteMatrixFile emits one matrix to a file, written atomically.
func WriteMatrixFile(path string, table *SubjectTable, kind MatrixKind, rs *ruleset.Sheet) (int, error) {
	var buf bytes.Buffer
	lines, err := WriteMatrix(&buf, table, kind, rs)
	if err != nil {
		return lines, err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return lines, fmt.Errorf("write %s: %w", path, err)
	}
	return lines, nil
}

// displayFieldName normalizes an output header field: lowercased with
// spaces, hyphens, slashes and dots replaced by underscores.
func displayFieldName(name string) string {
	name = strings.ToLower(name)
	replacer := strings.NewReplacer(" ", "_", "-", "_", "/", "_", ".", "_")
	return replacer.Replace(name)
}
