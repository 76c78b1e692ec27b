package s2_signals

import (
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/fundamental"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// FundamentalCalculator scores growth and balance-sheet metrics (stage 2)
// ⭐ SSOT: 기본적 성장성 점수/필터 계산은 여기서만
type FundamentalCalculator struct {
	cfg    FundamentalConfig
	logger *logger.Logger
}

// NewFundamentalCalculator creates a new fundamental calculator
func NewFundamentalCalculator(cfg FundamentalConfig, log *logger.Logger) *FundamentalCalculator {
	return &FundamentalCalculator{cfg: cfg, logger: log}
}

// FundamentalResult is the outcome of one fundamental pass
type FundamentalResult struct {
	Score    float64
	Metrics  contracts.FundamentalMetrics
	Criteria contracts.FundamentalCriteria
	Passed   bool
	Warnings []contracts.Warning
}

// normalizeSingle min-max normalizes a metric against itself.
// A single value has min == max, which yields 0.5; zero stays 0.
func normalizeSingle(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 0.5
}

// Calculate extracts metrics from table, scores them and evaluates the filter
func (c *FundamentalCalculator) Calculate(table contracts.StatementTable) FundamentalResult {
	var res FundamentalResult
	if table.IsEmpty() {
		c.logger.WithField("code", table.Code).Warn("statement table is empty, fundamental score 0")
		res.Warnings = []contracts.Warning{{Code: contracts.WarnMissingData, Message: "statement table is empty"}}
		return res
	}

	res.Metrics, res.Warnings = fundamental.NewExtractor(table, c.logger).Metrics()
	res.Warnings = append(res.Warnings, fundamental.Validate(table)...)
	res.Criteria = fundamental.CheckCriteria(res.Metrics, c.cfg.Thresholds)
	res.Passed = res.Criteria.PassedCount() >= c.cfg.MinCriteriaPassed

	if res.Metrics.IsZero() {
		c.logger.WithField("code", table.Code).Warn("all fundamental metrics are zero")
		return res
	}

	m := res.Metrics
	score := normalizeSingle(m.SalesGrowthPct)*c.cfg.SalesGrowthWeight +
		normalizeSingle(m.OperatingIncomeGrowthPct)*c.cfg.OpIncomeWeight +
		normalizeSingle(m.ROEPct)*c.cfg.ROEWeight +
		(1-normalizeSingle(m.DebtRatioPct))*c.cfg.DebtRatioWeight
	res.Score = clamp01(score)

	c.logger.WithFields(map[string]interface{}{
		"code":   table.Code,
		"passed": res.Criteria.PassedCount(),
		"score":  res.Score,
	}).Debug("Calculated fundamental score")

	return res
}
