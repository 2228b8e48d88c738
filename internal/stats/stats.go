// Package stats computes per-column summary statistics for the original
// and anonymized datasets independently: distinct counts, blind-aware
// modes, informative-cell counts, suppression and generalisation tallies.
// It is one of the four stats components sharing the per-dataset,
// per-column aggregation shape spec.md's design notes call out; unlike
// ClassSizes it never groups by QI — every number here is single-column.
package stats

import (
	"fmt"

	"anonaudit/internal/grouper"
	"anonaudit/internal/model"
	"anonaudit/internal/numfmt"
)

// Mode pairs a column's most common non-blind value with its count.
type Mode struct {
	Value model.Cell
	Count int
}

// Pct is a (count, percentage-string) pair, rendered with the field's
// required decimal precision at construction time.
type Pct struct {
	Count   int
	Percent string
}

// Dataset holds the statistics computed for one side (input or output) of
// the comparison.
type Dataset struct {
	Distinct     map[string]int
	Modes        map[string]Mode
	Informative  map[string]int
	Suppressed   map[string]Pct // output only
	GensupPerCol map[string]int // output only, requires input present
	TotalGensup  Pct            // output only
	TotalSup     Pct            // output only
	SupOfChanged string         // output only
}

// Result carries the statistics for both sides; either may be nil if the
// corresponding dataset was not loaded.
type Result struct {
	Input  *Dataset
	Output *Dataset
}

// Compute builds summary statistics for whichever of input/output is
// non-nil. blind is the configured blind token.
func Compute(input, output *model.Table, blind string) (*Result, error) {
	res := &Result{}

	if input != nil {
		d, err := computeInput(input, blind)
		if err != nil {
			return nil, err
		}
		res.Input = d
	}

	if output != nil {
		d, err := computeOutput(input, output, blind)
		if err != nil {
			return nil, err
		}
		res.Output = d
	}

	return res, nil
}

func computeInput(t *model.Table, blind string) (*Dataset, error) {
	d := &Dataset{
		Distinct:    make(map[string]int),
		Modes:       make(map[string]Mode),
		Informative: make(map[string]int),
	}

	rows := t.RowCount()
	for _, col := range t.Columns {
		dc, err := grouper.DistinctCount(t, col)
		if err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
		d.Distinct[col] = dc

		mode, err := modeOf(t, col, blind)
		if err != nil {
			return nil, err
		}
		d.Modes[col] = mode

		// No suppression is assumed in the original dataset: every cell
		// counts as informative.
		d.Informative[col] = rows
	}

	return d, nil
}

func computeOutput(input, output *model.Table, blind string) (*Dataset, error) {
	d := &Dataset{
		Distinct:     make(map[string]int),
		Modes:        make(map[string]Mode),
		Informative:  make(map[string]int),
		Suppressed:   make(map[string]Pct),
		GensupPerCol: make(map[string]int),
	}

	rows := output.RowCount()
	for _, col := range output.Columns {
		dc, err := grouper.DistinctCount(output, col)
		if err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
		d.Distinct[col] = dc

		mode, err := modeOf(output, col, blind)
		if err != nil {
			return nil, err
		}
		d.Modes[col] = mode

		supCount, err := suppressedCount(output, col, blind)
		if err != nil {
			return nil, err
		}
		d.Suppressed[col] = Pct{Count: supCount, Percent: round1Percent(supCount, rows)}
		d.Informative[col] = rows - supCount
	}

	if input == nil {
		d.TotalGensup = Pct{Count: 0, Percent: "0 %"}
		d.TotalSup = Pct{Count: 0, Percent: "0 %"}
		d.SupOfChanged = "0 %"
		return d, nil
	}

	totalGensup := 0
	for _, col := range output.Columns {
		changed, err := changedCellCount(input, output, col)
		if err != nil {
			return nil, err
		}
		d.GensupPerCol[col] = changed
		totalGensup += changed
	}

	totalCells := rows * len(output.Columns)
	d.TotalGensup = Pct{Count: totalGensup, Percent: round3Percent(totalGensup, totalCells)}

	totalSup := 0
	for _, p := range d.Suppressed {
		totalSup += p.Count
	}
	d.TotalSup = Pct{Count: totalSup, Percent: round3Percent(totalSup, totalCells)}

	if totalGensup == 0 {
		d.SupOfChanged = "0 %"
	} else {
		d.SupOfChanged = numfmt.Pct(float64(totalSup)/float64(totalGensup)*100, 3)
	}

	return d, nil
}

// modeOf returns the most common value of col, excluding the blind token
// unless the column contains only the blind token. Ties are broken by
// first-seen order, inherited from grouper.ValueCounts. grouper.ValueCounts
// excludes null cells (matching SQL COUNT(DISTINCT)); a column that is
// entirely null therefore reports no candidates, and its mode is the null
// cell itself, the way a GROUP BY groups nulls into their own bucket.
func modeOf(t *model.Table, col, blind string) (Mode, error) {
	counts, err := grouper.ValueCounts(t, col)
	if err != nil {
		return Mode{}, fmt.Errorf("stats: %w", err)
	}
	if len(counts) == 0 {
		rows := t.RowCount()
		if rows == 0 {
			return Mode{}, fmt.Errorf("column %s mode was not detected, does it contain any values?", col)
		}
		return Mode{Value: model.NullCell, Count: rows}, nil
	}

	top := counts[0]
	if top.Value.RawString() == blind && len(counts) > 1 {
		second := counts[1]
		return Mode{Value: second.Value, Count: second.Count}, nil
	}
	return Mode{Value: top.Value, Count: top.Count}, nil
}

func suppressedCount(t *model.Table, col, blind string) (int, error) {
	cells, err := t.Column(col)
	if err != nil {
		return 0, fmt.Errorf("stats: %w", err)
	}
	n := 0
	for _, c := range cells {
		if c.RawString() == blind {
			n++
		}
	}
	return n, nil
}

// changedCellCount counts output cells whose value never occurs in the
// corresponding input column: generalisation or suppression.
func changedCellCount(input, output *model.Table, col string) (int, error) {
	inCol, err := input.Column(col)
	if err != nil {
		// Column absent from the input: every output cell for it counts
		// as changed, since nothing in the input can match it.
		outCol, oerr := output.Column(col)
		if oerr != nil {
			return 0, fmt.Errorf("stats: %w", oerr)
		}
		return len(outCol), nil
	}

	seen := make(map[string]struct{}, len(inCol))
	for _, c := range inCol {
		seen[string(c.Kind)+":"+c.RawString()] = struct{}{}
	}

	outCol, err := output.Column(col)
	if err != nil {
		return 0, fmt.Errorf("stats: %w", err)
	}

	changed := 0
	for _, c := range outCol {
		if _, ok := seen[string(c.Kind)+":"+c.RawString()]; !ok {
			changed++
		}
	}
	return changed, nil
}

func round1Percent(n, d int) string {
	if d == 0 {
		return "0 %"
	}
	return numfmt.Pct(100*float64(n)/float64(d), 1)
}

func round3Percent(n, d int) string {
	if d == 0 {
		return "0 %"
	}
	return numfmt.Pct(100*float64(n)/float64(d), 3)
}
