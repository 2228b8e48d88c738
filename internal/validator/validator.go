// Package validator is the orchestrator: it builds QidSpec, sequences the
// five downstream components in Validator.analyzeAndValidate's order, and
// assembles the final report. It never reads tables or configuration
// itself — those are handed in already loaded, the way Validator's
// constructor in the original takes already-parsed dataframes and config.
package validator

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"anonaudit/internal/classsizes"
	"anonaudit/internal/config"
	"anonaudit/internal/distribution"
	"anonaudit/internal/model"
	"anonaudit/internal/privacy"
	"anonaudit/internal/qidspec"
	"anonaudit/internal/report"
	"anonaudit/internal/risk"
	"anonaudit/internal/stats"
)

// Outcome is the result of one run: the native report record, its
// canonical JSON rendering, and the plot-only companion data (gauges,
// distributions) never serialized into the report itself, per spec.md
// §4.7 step 7.
type Outcome struct {
	Report     map[string]interface{}
	JSON       string
	InputGauge *risk.GaugeSet
	OutGauge   *risk.GaugeSet
	InputDist  distribution.Series
	OutputDist distribution.Series
}

// Validator runs the full audit over one input/output table pair.
type Validator struct {
	Input  *model.Table
	Output *model.Table
	Config *config.Config
	Blind  string
	Logger *zap.Logger
}

// New builds a Validator. input and output may each be nil, but not
// both: when both are nil, New returns the "both failed to load" error;
// cfg supplies the column classification and thresholds.
func New(logger *zap.Logger, input, output *model.Table, cfg *config.Config) (*Validator, error) {
	if input == nil && output == nil {
		return nil, fmt.Errorf("validator: module is unable to produce meaningful output without proper input data")
	}
	blind := cfg.Blind
	if blind == "" {
		blind = config.DefaultBlind
	}
	return &Validator{Input: input, Output: output, Config: cfg, Blind: blind, Logger: logger}, nil
}

// AnalyzeAndValidate runs the full pipeline and returns the assembled
// report, mirroring Validator.analyzeAndValidate's sequence exactly.
func (v *Validator) AnalyzeAndValidate() (*Outcome, error) {
	spec := qidspec.New(v.Logger, v.Config.IDColumns, v.Config.QIColumns, v.Config.SAColumns, v.Blind)

	if len(spec.QI) == 0 {
		v.Logger.Warn("no QID columns specified, skipped output validation")
		m, s, err := report.Empty()
		if err != nil {
			return nil, err
		}
		return &Outcome{Report: m, JSON: s}, nil
	}

	confMinK := v.castThreshold("kanonymity", v.Config.KAnonymity)
	confMinL := v.castThreshold("ldiversity", v.Config.LDiversity)
	if confMinK == nil && confMinL == nil {
		v.Logger.Warn("privacy model configuration unspecified, skipped output validation")
		m, s, err := report.Empty()
		if err != nil {
			return nil, err
		}
		return &Outcome{Report: m, JSON: s}, nil
	}

	summaryStats, err := stats.Compute(v.Input, v.Output, spec.Blind)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}

	eqClassStats, err := classsizes.Compute(spec, v.Input, v.Output)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}

	trueMinK := 0
	if eqClassStats.Output != nil {
		trueMinK = eqClassStats.Output.Smallest
	}

	var privacyStats *privacy.Result
	if v.Output != nil {
		k := intOrZero(confMinK)
		l := intOrZero(confMinL)
		privacyStats, err = privacy.Compute(spec, v.Output, k, l, trueMinK)
		if err != nil {
			return nil, fmt.Errorf("validator: %w", err)
		}
	}

	attackerStats, err := risk.Compute(eqClassStats, v.Input, v.Output, spec)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}

	outcome := &Outcome{}
	if eqClassStats.Input != nil && confMinK != nil {
		atRisk, err := risk.RecordsAtRisk(v.Input, spec, *confMinK)
		if err != nil {
			return nil, fmt.Errorf("validator: %w", err)
		}
		g := risk.Gauges(eqClassStats.Input, atRisk, *confMinK)
		outcome.InputGauge = &g
	}
	if eqClassStats.Output != nil && confMinK != nil {
		atRisk, err := risk.RecordsAtRisk(v.Output, spec, *confMinK)
		if err != nil {
			return nil, fmt.Errorf("validator: %w", err)
		}
		g := risk.Gauges(eqClassStats.Output, atRisk, *confMinK)
		outcome.OutGauge = &g
	}

	if v.Input != nil {
		d, err := distribution.Compute(v.Input, spec.QI)
		if err != nil {
			return nil, fmt.Errorf("validator: %w", err)
		}
		outcome.InputDist = d
	}
	if v.Output != nil {
		d, err := distribution.Compute(v.Output, spec.QI)
		if err != nil {
			return nil, fmt.Errorf("validator: %w", err)
		}
		outcome.OutputDist = d
	}

	m, s, err := report.Build(summaryStats, eqClassStats, privacyStats, attackerStats)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	outcome.Report = m
	outcome.JSON = s
	return outcome, nil
}

// castThreshold verifies a configured threshold string the way
// Validator.cast does: must parse as an integer >= 1, otherwise it is
// logged and treated as unspecified.
func (v *Validator) castThreshold(description, raw string) *int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Logger.Warn("expected configuration value to be a number string", zap.String("setting", description))
		return nil
	}
	if n < 1 {
		v.Logger.Warn("expected configuration value to be >= 1", zap.String("setting", description))
		return nil
	}
	return &n
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
