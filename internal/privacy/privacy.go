// Package privacy runs the three privacy-model verifiers against the
// anonymized dataset: record-level k-anonymity, l-diversity, and
// individual-level (X,Y)-anonymity. It reads the output table directly
// (via grouper) and the previously computed smallest-class value from
// classsizes, matching Validator's wiring of
// PrivacyModelVerifier(confMinK, trueMinK, confMinL, outDataDf, qiQuery).
package privacy

import (
	"fmt"
	"sort"

	"anonaudit/internal/grouper"
	"anonaudit/internal/model"
	"anonaudit/internal/qidspec"
)

// KResult is the record-level k-anonymity verdict: the true smallest
// class size and the offending QI combinations, keyed by their rendered
// conjunction, mapped to class size.
type KResult struct {
	TrueMinK   int
	Violations map[string]int
}

// LResult is the l-diversity verdict: the smallest distinct-value count
// seen across all (class, sensitive-column) pairs, and the offending
// classes mapped to {sensitive column -> distinct count} for only the
// columns that violate confMinL within that class.
type LResult struct {
	TrueMinL   int
	Violations map[string]map[string]int
}

// XYResult is the individual-level (X,Y)-anonymity verdict.
type XYResult struct {
	TrueMinXY  int
	Violations map[string]int
}

// Result carries all three verdicts.
type Result struct {
	K  KResult
	L  LResult
	XY XYResult
}

// Compute runs all three verifiers. trueMinK is the smallest equivalence
// class size already computed by classsizes for the output dataset — the
// caller passes it in rather than PrivacyVerifier re-deriving it, exactly
// as in the Python original. An empty QI list is an error; a nil output
// table yields a nil Result and no error.
func Compute(spec *qidspec.Spec, output *model.Table, confMinK, confMinL, trueMinK int) (*Result, error) {
	if len(spec.QI) == 0 {
		return nil, fmt.Errorf("privacy: quasi-identifying columns not specified")
	}
	if output == nil {
		return nil, nil
	}

	classes, err := grouper.GroupByQI(output, spec.QI)
	if err != nil {
		return nil, fmt.Errorf("privacy: %w", err)
	}
	sort.SliceStable(classes, func(i, j int) bool { return classes[i].Size() < classes[j].Size() })

	k := kAnonymity(spec, classes, confMinK, trueMinK)
	l, xy := lDiversityAndXYAnonymity(spec, output, classes, confMinK, confMinL, trueMinK)

	return &Result{K: k, L: l, XY: xy}, nil
}

// kAnonymity walks classes in ascending size order, recording every class
// below confMinK until the first class at or above it (spec.md §4.5).
func kAnonymity(spec *qidspec.Spec, classesAsc []grouper.EqClass, confMinK, trueMinK int) KResult {
	violations := make(map[string]int)
	if trueMinK >= confMinK {
		return KResult{TrueMinK: trueMinK, Violations: violations}
	}

	for _, c := range classesAsc {
		if c.Size() >= confMinK {
			break
		}
		key := spec.RenderConjunction(spec.QI, c.Key, "=")
		violations[key] = c.Size()
	}
	return KResult{TrueMinK: trueMinK, Violations: violations}
}

func lDiversityAndXYAnonymity(spec *qidspec.Spec, output *model.Table, classesAsc []grouper.EqClass, confMinK, confMinL, trueMinK int) (LResult, XYResult) {
	lViolations := make(map[string]map[string]int)
	trueMinL := -1

	doXY, idColumn := xyAnonymityComputable(spec, output)
	xyViolations := make(map[string]int)
	trueMinXY := -1

	for _, c := range classesAsc {
		key := spec.RenderConjunction(spec.QI, c.Key, "=")

		if len(spec.Sensitive) > 0 {
			perCol := make(map[string]int)
			for _, sc := range spec.Sensitive {
				n, err := distinctWithin(output, sc, c.Rows)
				if err != nil {
					continue
				}
				if trueMinL == -1 || n < trueMinL {
					trueMinL = n
				}
				if n < confMinL {
					perCol[sc] = n
				}
			}
			if len(perCol) > 0 {
				lViolations[key] = perCol
			}
		}

		if doXY {
			n, err := distinctWithin(output, idColumn, c.Rows)
			if err == nil {
				if trueMinXY == -1 || n < trueMinXY {
					trueMinXY = n
				}
				if n < confMinK {
					xyViolations[key] = n
				}
			}
		}
	}

	l := LResult{TrueMinL: 0, Violations: lViolations}
	if len(spec.Sensitive) > 0 && trueMinL >= 0 {
		l.TrueMinL = trueMinL
	}

	// Mirrors a deliberate quirk of the original: the feasibility result
	// only replaces the reused record-level value when violations were
	// actually found, even if XY was computable and simply had none.
	xy := XYResult{TrueMinXY: trueMinK, Violations: make(map[string]int)}
	if len(xyViolations) > 0 {
		xy = XYResult{TrueMinXY: trueMinXY, Violations: xyViolations}
	}

	return l, xy
}

// xyAnonymityComputable runs the feasibility checks from spec.md §4.5:
// an identifying column must be configured, and its distinct count must
// be strictly between 0 and the row count (equality with the row count
// means every identifier is unique, so record-level k-anonymity already
// equals individual-level and the analysis is redundant).
func xyAnonymityComputable(spec *qidspec.Spec, output *model.Table) (bool, string) {
	if len(spec.Identifying) == 0 {
		return false, ""
	}
	idColumn := spec.Identifying[0]

	distinct, err := grouper.DistinctCount(output, idColumn)
	if err != nil || distinct == 0 {
		return false, ""
	}
	if distinct == output.RowCount() {
		return false, ""
	}
	return true, idColumn
}

func distinctWithin(t *model.Table, column string, rows []int) (int, error) {
	col, err := t.Column(column)
	if err != nil {
		return 0, fmt.Errorf("privacy: %w", err)
	}
	seen := make(map[string]struct{}, len(rows))
	for _, i := range rows {
		c := col[i]
		seen[string(c.Kind)+":"+c.RawString()] = struct{}{}
	}
	return len(seen), nil
}
