package matrix

import (
	"strings"

	"phenomatrix/internal/logging"
	"phenomatrix/internal/ruleset"
	"phenomatrix/internal/source"
)

// columnValues records the distinct values observed in one categorical
// column. First-seen order determines the order of the generated one-hot
// sub-columns; the counts are diagnostic only.
type columnValues struct {
	order  []string
	counts map[string]int
}

func (c *columnValues) add(value string) {
	if _, ok := c.counts[value]; !ok {
		c.order = append(c.order, value)
	}
	c.counts[value]++
}

// Inventory holds the unique-value sets of every split column in a sheet.
// It is built in a full pre-scan and is read-only during the row pass.
type Inventory struct {
	columns map[string]*columnValues
}

// Values returns the distinct values of a column in first-seen order.
func (inv *Inventory) Values(column string) []string {
	if c, ok := inv.columns[column]; ok {
		return c.order
	}
	return nil
}

// Count returns the number of times a value was observed in a column.
func (inv *Inventory) Count(column, value string) int {
	if c, ok := inv.columns[column]; ok {
		return c.counts[value]
	}
	return 0
}

// BuildInventory scans every split column of the sheet across all data rows
// and collects the distinct values. Disease-type values outside the
// configured whitelist are remapped ("Type 1" -> "Type1") or dropped with a
// warning; the row pass applies the identical rule so the two stay
// consistent.
func BuildInventory(sheet *source.Sheet, rs *ruleset.Sheet, hdr *Header, log *logging.Logger) *Inventory {
	inv := &Inventory{columns: make(map[string]*columnValues)}
	for column := range rs.SplitColumns {
		letter, ok := hdr.Letter(column)
		if !ok {
			continue
		}
		log.Info("Column '%s' is a categorical column that should be split", column)
		values := &columnValues{counts: make(map[string]int)}
		inv.columns[column] = values

		for i, cellValue := range sheet.Column(letter) {
			rowNum := i + 1
			if rowNum == 1 && rs.HasHeaderRow {
				continue
			}
			value := strings.TrimSpace(cellValue)
			if value == "" || value == "None" {
				continue
			}
			if isDiseaseTypeColumn(rs, column) {
				remapped, ok := qualifyDiseaseType(rs, value)
				if !ok {
					log.Warn("Will ignore unqualified value '%s' in worksheet '%s' column '%s' row '%d'", value, rs.Name, column, rowNum)
					continue
				}
				if remapped != value {
					log.Info("Changed value '%s' to '%s'", value, remapped)
					value = remapped
				}
			}
			values.add(value)
		}
		log.Info("Found the following '%d' unique values for categorical column '%s': %s",
			len(values.order), column, strings.Join(values.order, ","))
	}
	return inv
}

// diseaseTypeColumn is the categorical column subject to the whitelist check.
const diseaseTypeColumn = "Disease Type"

func isDiseaseTypeColumn(rs *ruleset.Sheet, column string) bool {
	return column == diseaseTypeColumn && len(rs.QualifiedDiseaseTypes) > 0
}

// qualifyDiseaseType checks a disease-type value against the whitelist.
// "Type 1" is a known data-entry variant of "Type1".
func qualifyDiseaseType(rs *ruleset.Sheet, value string) (string, bool) {
	if rs.QualifiedDiseaseTypes[value] {
		return value, true
	}
	if value == "Type 1" {
		return "Type1", true
	}
	return value, false
}
