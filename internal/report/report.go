// Package report assembles the four component results (summary statistics,
// equivalence-class statistics, privacy verification, attacker risk) into
// the nested record the engine returns, and serializes it the way the
// original tool does: sorted keys, 4-space indent, ", "/": " separators.
//
// The top-level and inner keys are the canonical human-readable labels the
// original carries in its Constants module — every downstream consumer
// (dashboards, saved reports) keys off these strings, so they are
// reproduced verbatim rather than reshaped into Go-ish names.
package report

import (
	"bytes"
	"encoding/json"

	"anonaudit/internal/classsizes"
	"anonaudit/internal/privacy"
	"anonaudit/internal/risk"
	"anonaudit/internal/stats"
)

// Top-level keys.
const (
	SummaryStatistics   = "Summary statistics"
	EquivalenceClasses  = "Equivalence class statistics"
	PrivacyVerification = "Privacy model verification"
	AttackRisks         = "Attacker model risks"
)

// Summary statistics inner keys.
const (
	ssInput        = "Input statistics"
	ssOutput       = "Output statistics"
	ssDistinct     = "Distinct values"
	ssInformative  = "Informative measures"
	ssModes        = "Modes"
	ssGensup       = "Generalized or suppressed"
	ssSup          = "Suppressed"
	ssTotalGensup  = "Total generalized or suppressed"
	ssTotalSup     = "Total suppressed"
	ssSupOfChanged = "Suppressed of total changed"
)

// Equivalence-class inner keys.
const (
	eqInput      = "Input equivalence class"
	eqOutput     = "Output equivalence class"
	eqAvgSup     = "Average equivalence class size (including suppressed)"
	eqAvgNosup   = "Average equivalence class size (without suppressed)"
	eqBiggest    = "Biggest equivalence class size"
	eqSuppressed = "Completely suppressed class size"
	eqNoClasses  = "Number of classes"
	eqNoRecords  = "Number of records"
	eqSmallest   = "Smallest equivalence class size"
)

// Privacy verification inner keys.
const (
	prK  = "K and violations"
	prL  = "L and violations"
	prXY = "XY and violations"
)

// Attacker risk inner keys.
const (
	arInput                   = "Input attacker model risks"
	arOutput                  = "Output attacker model risks"
	arRecordsAffectedLowest   = "Records affected by lowest risk"
	arRecordsAffectedHighest  = "Records affected by highest risk"
	arEstimatedMarketerRisk   = "Estimated marketer risk"
	arProsecutorLowest        = "Lowest prosecutor risk"
	arProsecutorAverage       = "Average prosecutor risk"
	arProsecutorHighest       = "Highest prosecutor risk"
	arEstimatedJournalistRisk = "Estimated journalist risk"
)

// Empty returns the short-circuit report: an empty JSON object, used when
// QI is unconfigured, both thresholds are unspecified, or (upstream of this
// package) when both datasets failed to load.
func Empty() (map[string]interface{}, string, error) {
	m := map[string]interface{}{}
	s, err := marshal(m)
	return m, s, err
}

// Build assembles the full report record from the four component results
// and renders it to its canonical JSON string. Any of the *Result pointers
// may have a nil Input or Output side; the corresponding sub-record is
// then an empty object, matching the original's behaviour for an absent
// dataset.
func Build(ss *stats.Result, cs *classsizes.Result, pv *privacy.Result, ar *risk.Result) (map[string]interface{}, string, error) {
	m := map[string]interface{}{
		SummaryStatistics:  summaryStatisticsJSON(ss),
		EquivalenceClasses: equivalenceClassesJSON(cs),
		AttackRisks:        attackRisksJSON(ar),
	}
	if pv != nil {
		m[PrivacyVerification] = privacyVerificationJSON(pv)
	} else {
		m[PrivacyVerification] = map[string]interface{}{}
	}

	s, err := marshal(m)
	return m, s, err
}

func marshal(m map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	// json.Encoder.Encode appends a trailing newline; the original's
	// json.dumps does not.
	out := bytes.TrimRight(buf.Bytes(), "\n")
	// The encoder ends each item line with ","; the item separator is ", ".
	// Newlines inside string values are escaped, so every raw ",\n" is a
	// separator.
	out = bytes.ReplaceAll(out, []byte(",\n"), []byte(", \n"))
	return string(out), nil
}

func summaryStatisticsJSON(ss *stats.Result) map[string]interface{} {
	out := map[string]interface{}{
		ssInput:  map[string]interface{}{},
		ssOutput: map[string]interface{}{},
	}
	if ss == nil {
		return out
	}
	if ss.Input != nil {
		out[ssInput] = datasetToJSON(ss.Input, false)
	}
	if ss.Output != nil {
		out[ssOutput] = datasetToJSON(ss.Output, true)
	}
	return out
}

func datasetToJSON(d *stats.Dataset, isOutput bool) map[string]interface{} {
	m := map[string]interface{}{
		ssDistinct:    d.Distinct,
		ssInformative: d.Informative,
		ssModes:       modesToJSON(d.Modes),
	}
	if !isOutput {
		return m
	}
	m[ssSup] = pctMapToJSON(d.Suppressed)
	m[ssGensup] = d.GensupPerCol
	m[ssTotalGensup] = []interface{}{d.TotalGensup.Count, d.TotalGensup.Percent}
	m[ssTotalSup] = []interface{}{d.TotalSup.Count, d.TotalSup.Percent}
	m[ssSupOfChanged] = d.SupOfChanged
	return m
}

func modesToJSON(modes map[string]stats.Mode) map[string]interface{} {
	out := make(map[string]interface{}, len(modes))
	for col, m := range modes {
		out[col] = []interface{}{m.Value.JSONValue(), m.Count}
	}
	return out
}

func pctMapToJSON(pcts map[string]stats.Pct) map[string]interface{} {
	out := make(map[string]interface{}, len(pcts))
	for col, p := range pcts {
		out[col] = []interface{}{p.Count, p.Percent}
	}
	return out
}

func equivalenceClassesJSON(cs *classsizes.Result) map[string]interface{} {
	out := map[string]interface{}{
		eqInput:  map[string]interface{}{},
		eqOutput: map[string]interface{}{},
	}
	if cs == nil {
		return out
	}
	if cs.Input != nil {
		out[eqInput] = sizesToJSON(cs.Input)
	}
	if cs.Output != nil {
		out[eqOutput] = sizesToJSON(cs.Output)
	}
	return out
}

func sizesToJSON(s *classsizes.Sizes) map[string]interface{} {
	return map[string]interface{}{
		eqAvgSup:     s.AvgSup,
		eqAvgNosup:   s.AvgNoSup,
		eqSuppressed: s.Suppressed,
		eqSmallest:   s.Smallest,
		eqBiggest:    s.Biggest,
		eqNoClasses:  s.NoClasses,
		eqNoRecords:  s.NoRecords,
	}
}

func privacyVerificationJSON(pv *privacy.Result) map[string]interface{} {
	if pv == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		prK:  []interface{}{pv.K.TrueMinK, pv.K.Violations},
		prL:  []interface{}{pv.L.TrueMinL, pv.L.Violations},
		prXY: []interface{}{pv.XY.TrueMinXY, pv.XY.Violations},
	}
}

func attackRisksJSON(ar *risk.Result) map[string]interface{} {
	out := map[string]interface{}{
		arInput:  map[string]interface{}{},
		arOutput: map[string]interface{}{},
	}
	if ar == nil {
		return out
	}
	if ar.Input != nil {
		out[arInput] = overviewToJSON(ar.Input)
	}
	if ar.Output != nil {
		out[arOutput] = overviewToJSON(ar.Output)
	}
	return out
}

func overviewToJSON(o *risk.Overview) map[string]interface{} {
	return map[string]interface{}{
		arProsecutorLowest:        o.ProsecutorLowest,
		arProsecutorAverage:       o.ProsecutorAverage,
		arProsecutorHighest:       o.ProsecutorHighest,
		arRecordsAffectedLowest:   o.RecordsAffectedLowest,
		arRecordsAffectedHighest:  o.RecordsAffectedHighest,
		arEstimatedJournalistRisk: o.EstimatedJournalistRisk,
		arEstimatedMarketerRisk:   o.EstimatedMarketerRisk,
	}
}
