package s2_signals

import (
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/pattern"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// TrendCalculator scores the trend template (stage 1)
// ⭐ SSOT: 기술적 추세 점수/필터 계산은 여기서만
type TrendCalculator struct {
	cfg    TrendConfig
	logger *logger.Logger
}

// NewTrendCalculator creates a new trend calculator
func NewTrendCalculator(cfg TrendConfig, log *logger.Logger) *TrendCalculator {
	return &TrendCalculator{cfg: cfg, logger: log}
}

// Conditions evaluates the four trend checks on the latest bar.
// Moving averages use min-periods-1; a slope reference before the first
// bar fails the slope check.
func (c *TrendCalculator) Conditions(series contracts.PriceSeries) (contracts.TrendConditions, []contracts.Warning) {
	var conds contracts.TrendConditions
	n := series.Len()
	if n == 0 {
		return conds, []contracts.Warning{{Code: contracts.WarnMissingData, Message: "price series is empty"}}
	}

	closes := series.Closes()
	last := n - 1
	latest := closes[last]

	maShort := pattern.RollingMean(closes, c.cfg.MAShort)
	maMid := pattern.RollingMean(closes, c.cfg.MAMid)
	maLong := pattern.RollingMean(closes, c.cfg.MALong)

	s, m, l := maShort[last], maMid[last], maLong[last]

	conds.PriceAboveMA = latest > s && latest > m && latest > l
	conds.MAAlignment = s > m && m > l

	var warnings []contracts.Warning
	if last-c.cfg.SlopeLong < 0 {
		warnings = append(warnings, contracts.Warning{
			Code:    contracts.WarnMissingData,
			Message: "not enough history for moving average slope",
		})
	}
	rising := func(ma []float64, lookback int) bool {
		ref := last - lookback
		return ref >= 0 && ma[last] > ma[ref]
	}
	conds.MASlope = rising(maShort, c.cfg.SlopeShort) &&
		rising(maMid, c.cfg.SlopeMid) &&
		rising(maLong, c.cfg.SlopeLong)

	from := n - c.cfg.RangeBars
	if from < 0 {
		from = 0
	}
	high, low := series.Bars[from].High, series.Bars[from].Low
	for _, b := range series.Bars[from:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	conds.PriceVs52W = latest >= low*c.cfg.LowMultiple && latest >= high*c.cfg.HighMultiple

	return conds, warnings
}

// Calculate returns the trend score (0.25 per condition) and the conditions
func (c *TrendCalculator) Calculate(series contracts.PriceSeries) (float64, contracts.TrendConditions, []contracts.Warning) {
	conds, warnings := c.Conditions(series)
	score := clamp01(0.25 * float64(conds.Count()))

	c.logger.WithFields(map[string]interface{}{
		"code":           series.Code,
		"price_above_ma": conds.PriceAboveMA,
		"ma_alignment":   conds.MAAlignment,
		"ma_slope":       conds.MASlope,
		"price_vs_52w":   conds.PriceVs52W,
		"score":          score,
	}).Debug("Calculated trend score")

	return score, conds, warnings
}
