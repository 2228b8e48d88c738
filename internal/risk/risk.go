// Package risk derives prosecutor/journalist/marketer re-identification
// risk metrics and "records at risk" from the equivalence-class
// statistics already computed by classsizes. Every formula collapses to a
// function of class sizes under the sample-equals-population assumption
// spec.md §4.6 states explicitly, so this package never re-reads the
// table itself except to group it once more for the exact-size-match
// tallies (records affected lowest/highest, records at risk).
package risk

import (
	"fmt"
	"math"

	"anonaudit/internal/classsizes"
	"anonaudit/internal/grouper"
	"anonaudit/internal/model"
	"anonaudit/internal/numfmt"
	"anonaudit/internal/qidspec"
)

// Overview is the percentage-rendered risk summary for one dataset.
type Overview struct {
	ProsecutorLowest        string
	ProsecutorAverage       string
	ProsecutorHighest       string
	RecordsAffectedLowest   string
	RecordsAffectedHighest  string
	EstimatedJournalistRisk string
	EstimatedMarketerRisk   string
}

// Result carries the overview for both sides; either may be nil if the
// corresponding dataset was not loaded.
type Result struct {
	Input  *Overview
	Output *Overview
}

// ProsecutorJournalistGauge is the three-value gauge series shared by the
// prosecutor and journalist models.
type ProsecutorJournalistGauge struct {
	RecordsAtRisk float64
	HighestRisk   float64
	SuccessRate   float64
}

// MarketerGauge is the marketer model's single-value gauge series.
type MarketerGauge struct {
	SuccessRate float64
}

// GaugeSet is the plot-only data the three attacker-model gauges consume;
// spec.md §4.6 keeps this out of the serialized report.
type GaugeSet struct {
	Prosecutor    ProsecutorJournalistGauge
	Journalist    ProsecutorJournalistGauge
	Marketer      MarketerGauge
	ReferenceLine float64
}

// Compute builds the overview for whichever of input/output sizes is
// non-nil.
func Compute(sizes *classsizes.Result, inputRows, outputRows *model.Table, spec *qidspec.Spec) (*Result, error) {
	res := &Result{}

	if sizes.Input != nil {
		o, err := overviewOf(sizes.Input, inputRows, spec)
		if err != nil {
			return nil, err
		}
		res.Input = o
	}

	if sizes.Output != nil {
		o, err := overviewOf(sizes.Output, outputRows, spec)
		if err != nil {
			return nil, err
		}
		res.Output = o
	}

	return res, nil
}

func overviewOf(s *classsizes.Sizes, t *model.Table, spec *qidspec.Spec) (*Overview, error) {
	classes, err := grouper.GroupByQI(t, spec.QI)
	if err != nil {
		return nil, fmt.Errorf("risk: %w", err)
	}

	affectedLowest := sumSizesEqual(classes, s.Biggest)
	affectedHighest := sumSizesEqual(classes, s.Smallest)

	return &Overview{
		ProsecutorLowest:        pctStr(1, float64(s.Biggest)),
		ProsecutorAverage:       pctStr(1, s.AvgSup),
		ProsecutorHighest:       pctStr(1, float64(s.Smallest)),
		RecordsAffectedLowest:   pctStr(float64(affectedLowest), float64(s.NoRecords)),
		RecordsAffectedHighest:  pctStr(float64(affectedHighest), float64(s.NoRecords)),
		EstimatedJournalistRisk: pctStr(1, float64(s.Smallest)),
		EstimatedMarketerRisk:   pctStr(1, s.AvgSup),
	}, nil
}

// RecordsAtRisk returns the percentage of rows belonging to any
// equivalence class smaller than threshold; 0 if none.
func RecordsAtRisk(t *model.Table, spec *qidspec.Spec, threshold int) (float64, error) {
	classes, err := grouper.GroupByQI(t, spec.QI)
	if err != nil {
		return 0, fmt.Errorf("risk: %w", err)
	}
	sum := 0
	for _, c := range classes {
		if c.Size() < threshold {
			sum += c.Size()
		}
	}
	if sum == 0 {
		return 0, nil
	}
	return pct(float64(sum), float64(t.RowCount())), nil
}

// Gauges builds the plot-only gauge series for one dataset.
func Gauges(s *classsizes.Sizes, recordsAtRisk float64, threshold int) GaugeSet {
	highestRisk := pct(1, float64(s.Smallest))
	successRate := pct(1, s.AvgSup)
	pj := ProsecutorJournalistGauge{RecordsAtRisk: recordsAtRisk, HighestRisk: highestRisk, SuccessRate: successRate}
	return GaugeSet{
		Prosecutor:    pj,
		Journalist:    pj,
		Marketer:      MarketerGauge{SuccessRate: successRate},
		ReferenceLine: pct(1, float64(threshold)),
	}
}

func sumSizesEqual(classes []grouper.EqClass, size int) int {
	sum := 0
	for _, c := range classes {
		if c.Size() == size {
			sum += c.Size()
		}
	}
	return sum
}

func pct(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(numerator/denominator*100*1000) / 1000
}

func pctStr(numerator, denominator float64) string {
	return numfmt.Pct(pct(numerator, denominator), 3)
}
