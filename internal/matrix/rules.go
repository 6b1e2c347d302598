package matrix

import "phenomatrix/internal/ruleset"

// RuleKind tags the recoding rule applied to a column. The set is closed:
// every dataset variant is expressed as a policy table over these kinds
// rather than a separate engine.
type RuleKind int

const (
	// RuleSampleID sets the subject context for the rest of the row.
	RuleSampleID RuleKind = iota
	// RuleEyeCarry stores an eye-lateral staging value into row-local state
	// for a later case/control derivation in the same row.
	RuleEyeCarry
	// RuleCaseControl derives the case/control field, either directly from
	// the recorded label or by overriding it from the eye carries.
	RuleCaseControl
	// RuleDiagnosis recodes a single-label diagnosis column.
	RuleDiagnosis
	// RuleGender recodes the gender column.
	RuleGender
	// RuleDualTension produces the two tension-glaucoma fields at once.
	RuleDualTension
	// RuleSplit one-hot expands a categorical column over its inventory.
	RuleSplit
	// RuleQuantitative stores a numeric/range value, with optional
	// paired-eye mean derivation.
	RuleQuantitative
	// RuleYesNo recodes a Yes/No column.
	RuleYesNo
)

// carryKey identifies a row-local eye-lateral carry slot.
type carryKey int

const (
	carryRetinopathyOD carryKey = iota
	carryRetinopathyOS
	carryMacularEdemaOD
	carryMacularEdemaOS
	carryCount
)

// PairSpec describes a paired-eye quantitative column set: the right-eye
// reading seen first, the left-eye reading seen second, and the derived
// mean field written when both are known.
type PairSpec struct {
	First   string
	Second  string
	Derived string
}

// Rule is one dispatch entry.
type Rule struct {
	Kind  RuleKind
	Carry carryKey
	Pair  *PairSpec
}

// sampleIDColumn identifies the subject-ID column in every dataset.
const sampleIDColumn = "Sample_ID"

// genderColumn is recoded the same way in every dataset.
const genderColumn = "Gender"

// eyeCarryColumns are the staging columns feeding the case/control override.
var eyeCarryColumns = map[string]Rule{
	"Retinopathy_OD":   {Kind: RuleEyeCarry, Carry: carryRetinopathyOD},
	"Retinopathy_OS":   {Kind: RuleEyeCarry, Carry: carryRetinopathyOS},
	"Macular Edema_OD": {Kind: RuleEyeCarry, Carry: carryMacularEdemaOD},
	"Macular Edema_OS": {Kind: RuleEyeCarry, Carry: carryMacularEdemaOS},
}

// datasetPolicy is the bespoke column handling of one dataset, layered over
// the generic split/quantitative/yes-no dispatch.
type datasetPolicy struct {
	columns map[string]Rule
	pairs   []PairSpec
}

var datasetPolicies = map[string]datasetPolicy{
	"Glaucoma": {
		columns: map[string]Rule{
			"Glaucoma.diagnosis": {Kind: RuleDiagnosis},
			"NTG HTG":            {Kind: RuleDualTension},
		},
		pairs: []PairSpec{
			{First: "Highest IOP_RE", Second: "Highest IOP_LE", Derived: "Highest_IOP_Mean"},
			{First: "VCDR_RE", Second: "VCDR_LE", Derived: "VCDR_Mean"},
		},
	},
	"DR": {
		columns: merge(eyeCarryColumns, map[string]Rule{
			"Control/Case": {Kind: RuleCaseControl},
		}),
	},
	"AMD": {
		columns: merge(eyeCarryColumns, map[string]Rule{
			"Diagnosis":    {Kind: RuleDiagnosis},
			"Control/Case": {Kind: RuleCaseControl},
		}),
	},
}

// DispatchTable resolves a column name to its recoding rule for one sheet.
type DispatchTable struct {
	rs     *ruleset.Sheet
	policy datasetPolicy
	pairBy map[string]*PairSpec
}

// BuildDispatch assembles the dispatch table for a sheet from the built-in
// dataset policy and the ruleset's generic column lists.
func BuildDispatch(rs *ruleset.Sheet) *DispatchTable {
	d := &DispatchTable{
		rs:     rs,
		policy: datasetPolicies[rs.Name],
		pairBy: make(map[string]*PairSpec),
	}
	for i := range d.policy.pairs {
		p := &d.policy.pairs[i]
		d.pairBy[p.First] = p
		d.pairBy[p.Second] = p
	}
	return d
}

// Resolve returns the rule for a column. Precedence: subject-ID and
// dataset-specific columns first, then split, quantitative and yes/no lists
// from the ruleset. Columns matching nothing are unrecognized (fatal to the
// caller).
func (d *DispatchTable) Resolve(column string) (Rule, bool) {
	if column == sampleIDColumn {
		return Rule{Kind: RuleSampleID}, true
	}
	if r, ok := d.policy.columns[column]; ok {
		return r, true
	}
	if column == genderColumn {
		return Rule{Kind: RuleGender}, true
	}
	if d.rs.SplitColumns[column] {
		return Rule{Kind: RuleSplit}, true
	}
	if d.rs.QuantitativeColumns[column] {
		return Rule{Kind: RuleQuantitative, Pair: d.pairBy[column]}, true
	}
	if d.rs.YesNoColumns[column] {
		return Rule{Kind: RuleYesNo}, true
	}
	return Rule{}, false
}

func merge(maps ...map[string]Rule) map[string]Rule {
	out := make(map[string]Rule)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
