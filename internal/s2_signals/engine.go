package s2_signals

import (
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/pattern"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Input is everything the engine scores for one stock
type Input struct {
	Series     contracts.PriceSeries
	Statements contracts.StatementTable
}

// Evaluation is a full scoring pass: the bundle plus the details behind it
type Evaluation struct {
	Bundle   contracts.ScoreBundle         `json:"bundle"`
	Metrics  contracts.FundamentalMetrics  `json:"metrics"`
	Criteria contracts.FundamentalCriteria `json:"criteria"`
	Trend    contracts.TrendConditions     `json:"trend"`
	RS       contracts.RSDetail            `json:"rs"`
	Patterns contracts.PatternSet          `json:"patterns"`
}

// Engine computes SEPA scores. It is stateless and safe for concurrent use.
// ⭐ SSOT: 종합 점수/필터/추천 산출은 여기서만
type Engine struct {
	cfg         Config
	trend       *TrendCalculator
	fundamental *FundamentalCalculator
	rs          *RSCalculator
	pattern     *PatternCalculator
	logger      *logger.Logger
}

// NewEngine creates an engine with one calculator per stage
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		cfg:         cfg,
		trend:       NewTrendCalculator(cfg.Trend, log),
		fundamental: NewFundamentalCalculator(cfg.Fundamental, log),
		rs:          NewRSCalculator(cfg.RS, log),
		pattern:     NewPatternCalculator(cfg.Pattern, log),
		logger:      log,
	}
}

// Config returns the engine parameters
func (e *Engine) Config() Config {
	return e.cfg
}

// PatternCalculator exposes the pattern stage for recent-event views
func (e *Engine) PatternCalculator() *PatternCalculator {
	return e.pattern
}

// Evaluate scores one stock as of asOf
func (e *Engine) Evaluate(in Input, asOf time.Time) contracts.ScoreBundle {
	return e.Analyze(in, asOf).Bundle
}

// Analyze scores one stock as of asOf and keeps the intermediate results.
// Bars after asOf are ignored. It never fails; degraded inputs show up as
// zero scores and warnings.
func (e *Engine) Analyze(in Input, asOf time.Time) Evaluation {
	series := in.Series.Until(asOf)
	var warnings []contracts.Warning

	if err := series.Validate(); err != nil {
		warnings = append(warnings, contracts.Warning{Code: contracts.WarnMissingData, Message: err.Error()})
	}

	trendScore, trendConds, w := e.trend.Calculate(series)
	warnings = append(warnings, w...)

	fund := e.fundamental.Calculate(in.Statements)
	warnings = append(warnings, fund.Warnings...)

	rsScore, rsDetail, w := e.rs.Calculate(series)
	warnings = append(warnings, w...)

	patterns := pattern.NewDetector(series, e.cfg.Pattern.Detector, e.logger).DetectAll()
	patternScore := 0.0
	if !series.IsEmpty() {
		patternScore = e.pattern.Calculate(patterns, asOf)
	}

	filters := contracts.FilterResult{
		Trend:       !series.IsEmpty() && trendConds.AllHold(),
		Fundamental: !in.Statements.IsEmpty() && fund.Passed,
		RS:          !series.IsEmpty() && e.rs.Passes(rsScore),
	}

	total := e.composite(trendScore, fund.Score, rsScore, patternScore)

	bundle := contracts.ScoreBundle{
		Total:          total,
		Trend:          trendScore,
		Fundamental:    fund.Score,
		RS:             rsScore,
		Pattern:        patternScore,
		Filters:        filters,
		Recommendation: Recommend(total, filters, e.cfg.Recommendation),
		Warnings:       dedupe(warnings),
	}

	e.logger.WithFields(map[string]interface{}{
		"code":           series.Code,
		"total":          bundle.Total,
		"filters_passed": filters.AllPassed(),
		"recommendation": string(bundle.Recommendation),
		"warnings":       len(bundle.Warnings),
	}).Debug("Evaluated stock")

	return Evaluation{
		Bundle:   bundle,
		Metrics:  fund.Metrics,
		Criteria: fund.Criteria,
		Trend:    trendConds,
		RS:       rsDetail,
		Patterns: patterns,
	}
}

// composite is the weighted total; all-zero stages short-circuit to 0
func (e *Engine) composite(trend, fund, rs, pat float64) float64 {
	if trend == 0 && fund == 0 && rs == 0 && pat == 0 {
		return 0
	}
	w := e.cfg.Composite
	return clamp01(trend*w.Trend + fund*w.Fundamental + rs*w.RS + pat*w.Pattern)
}

func dedupe(warnings []contracts.Warning) []contracts.Warning {
	if len(warnings) == 0 {
		return nil
	}
	seen := make(map[contracts.Warning]bool, len(warnings))
	out := make([]contracts.Warning, 0, len(warnings))
	for _, w := range warnings {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
