// Package classsizes aggregates equivalence-class statistics: smallest,
// biggest, and averages with and without the fully-suppressed class. It
// builds directly on grouper.GroupByQI and qidspec's NOBLIND/ALLBLIND
// predicates, the way ClassSizes.py leans on duckdb GROUP BY plus the
// ALLBLIND/NOBLIND query clauses from QiQuery.py.
package classsizes

import (
	"fmt"
	"math"

	"anonaudit/internal/grouper"
	"anonaudit/internal/model"
	"anonaudit/internal/qidspec"
)

// Sizes holds the equivalence-class aggregates for one dataset.
type Sizes struct {
	AvgSup     float64
	AvgNoSup   float64
	Suppressed int
	Smallest   int
	Biggest    int
	NoClasses  int
	NoRecords  int
}

// Result carries the aggregates for both sides; either may be nil if the
// corresponding dataset was not loaded.
type Result struct {
	Input  *Sizes
	Output *Sizes
}

// Compute builds class-size aggregates for whichever of input/output is
// non-nil. spec must have a non-empty QI list; this is an engine-level
// precondition the validator checks before ever constructing ClassSizes.
func Compute(spec *qidspec.Spec, input, output *model.Table) (*Result, error) {
	if len(spec.QI) == 0 {
		return nil, fmt.Errorf("classsizes: quasi-identifying columns not specified")
	}

	res := &Result{}

	if input != nil {
		s, err := computeOne(spec, input, "Input", false)
		if err != nil {
			return nil, err
		}
		res.Input = s
	}

	if output != nil {
		s, err := computeOne(spec, output, "Output", true)
		if err != nil {
			return nil, err
		}
		res.Output = s
	}

	return res, nil
}

func computeOne(spec *qidspec.Spec, t *model.Table, label string, treatSuppressedAsPresent bool) (*Sizes, error) {
	rows := t.RowCount()
	if rows == 0 {
		return nil, fmt.Errorf("classsizes: %s dataset has zero rows", label)
	}

	classes, err := grouper.GroupByQI(t, spec.QI)
	if err != nil {
		return nil, fmt.Errorf("classsizes: %w", err)
	}
	classCount := len(classes)

	suppressedSize := 0
	hasSuppressed := false
	if treatSuppressedAsPresent {
		for _, c := range classes {
			if spec.AllBlind(c.Key) {
				suppressedSize = c.Size()
				hasSuppressed = true
				break
			}
		}
	}

	avgSup := round3(float64(rows) / float64(classCount))

	// avg_nosup only drops the all-suppressed class from the divisor when
	// one was actually found; otherwise it equals avg_sup.
	divisor := classCount
	if hasSuppressed && classCount > 1 {
		divisor = classCount - 1
	}
	if divisor == 0 {
		divisor = 1
	}
	avgNoSup := round3(float64(rows-suppressedSize) / float64(divisor))

	smallest, biggest := 0, 0
	first := true
	for _, c := range classes {
		if !spec.NoBlind(c.Key) {
			continue
		}
		if first {
			smallest, biggest = c.Size(), c.Size()
			first = false
			continue
		}
		if c.Size() < smallest {
			smallest = c.Size()
		}
		if c.Size() > biggest {
			biggest = c.Size()
		}
	}

	return &Sizes{
		AvgSup:     avgSup,
		AvgNoSup:   avgNoSup,
		Suppressed: suppressedSize,
		Smallest:   smallest,
		Biggest:    biggest,
		NoClasses:  classCount,
		NoRecords:  rows,
	}, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
