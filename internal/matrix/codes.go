// Package matrix implements the column-transformation engine: the
// unique-value inventory, the header resolver, the row transformer and the
// binary/quantitative matrix emitters.
package matrix

import (
	"strconv"

	"phenomatrix/internal/ruleset"
)

// NA is the sentinel written for not-available and not-applicable values.
const NA = "NA"

// notApplicable is the third state on a case/control axis, used by dual-axis
// derivations where a subject is not applicable to one axis while being
// case/control on the other.
const notApplicable = 0

// Coding holds the integer codes for the three binary coding families.
// Yes/No is fixed; case/control and gender swapped between historical
// versions of the processing scripts and are therefore configured per sheet.
type Coding struct {
	Yes     int
	No      int
	Case    int
	Control int
	Female  int
	Male    int
	// GenderNA is the gender family's not-available code (0, not "NA").
	GenderNA int
}

// CodingFor returns the coding family configured for the sheet.
func CodingFor(mode ruleset.CaseControlCoding) Coding {
	c := Coding{Yes: 2, No: 1, GenderNA: 0}
	switch mode {
	case ruleset.CodingCaseOne:
		c.Case, c.Control = 1, 2
		c.Female, c.Male = 1, 2
	default:
		c.Case, c.Control = 2, 1
		c.Female, c.Male = 2, 1
	}
	return c
}

func code(v int) string {
	return strconv.Itoa(v)
}
