// Package distribution computes the per-QI-column value distribution a
// plotting layer would render as a bar chart, the numeric companion to
// Distribution.generateDistributionPlots in the original tool. Like the
// attacker-risk gauges in package risk, this is side-effecting companion
// data to analyzeAndValidate rather than part of the serialized report
// (spec.md §1 excludes rendering; the series itself is still computed).
package distribution

import (
	"fmt"

	"anonaudit/internal/grouper"
	"anonaudit/internal/model"
	"anonaudit/internal/numfmt"
)

// Bar is one bar of a distribution chart: a QI value and the percentage of
// rows carrying it.
type Bar struct {
	Value   model.Cell
	Percent string
}

// Series is the full per-column distribution for one dataset side.
type Series map[string][]Bar

// Compute builds a Series over t's QI columns, sorted by count descending
// the way grouper.ValueCounts already orders its result.
func Compute(t *model.Table, qi []string) (Series, error) {
	if t == nil {
		return nil, nil
	}
	rows := t.RowCount()
	if rows == 0 {
		return Series{}, nil
	}

	out := make(Series, len(qi))
	for _, col := range qi {
		counts, err := grouper.ValueCounts(t, col)
		if err != nil {
			return nil, fmt.Errorf("distribution: %w", err)
		}
		bars := make([]Bar, len(counts))
		for i, c := range counts {
			bars[i] = Bar{Value: c.Value, Percent: numfmt.Pct(100*float64(c.Count)/float64(rows), 5)}
		}
		out[col] = bars
	}
	return out, nil
}
