package s2_signals

import (
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// RSCalculator scores relative strength from trailing returns (stage 3)
// ⭐ SSOT: 상대적 강도 점수 계산은 여기서만
type RSCalculator struct {
	cfg    RSConfig
	logger *logger.Logger
}

// NewRSCalculator creates a new RS calculator
func NewRSCalculator(cfg RSConfig, log *logger.Logger) *RSCalculator {
	return &RSCalculator{cfg: cfg, logger: log}
}

// trailingReturn returns the % change from bars before the last to the last
// bar, falling back to the first bar when history is shorter
func trailingReturn(closes []float64, bars int) (float64, bool) {
	n := len(closes)
	ref := closes[0]
	if n >= bars && bars > 0 {
		ref = closes[n-bars]
	}
	if ref <= 0 {
		return 0, false
	}
	return (closes[n-1]/ref - 1) * 100, true
}

// Calculate returns the RS score and the returns behind it
func (c *RSCalculator) Calculate(series contracts.PriceSeries) (float64, contracts.RSDetail, []contracts.Warning) {
	var detail contracts.RSDetail
	if series.IsEmpty() {
		return 0, detail, []contracts.Warning{{Code: contracts.WarnMissingData, Message: "price series is empty"}}
	}

	closes := series.Closes()
	r13, ok13 := trailingReturn(closes, c.cfg.ShortBars)
	r26, ok26 := trailingReturn(closes, c.cfg.LongBars)
	if !ok13 || !ok26 {
		return 0, detail, []contracts.Warning{{
			Code:    contracts.WarnComputationGuard,
			Message: "reference close is not positive; RS set to 0",
		}}
	}
	detail.Return13W, detail.Return26W = r13, r26

	sub13 := clamp01(r13 / c.cfg.ShortFullPct)
	sub26 := clamp01(r26 / c.cfg.LongFullPct)
	score := clamp01(sub13*c.cfg.ShortWeight + sub26*c.cfg.LongWeight)

	c.logger.WithFields(map[string]interface{}{
		"code":       series.Code,
		"return_13w": r13,
		"return_26w": r26,
		"score":      score,
	}).Debug("Calculated RS score")

	return score, detail, nil
}

// Passes reports whether an RS score clears the filter
func (c *RSCalculator) Passes(score float64) bool {
	return score >= c.cfg.FilterMinScore
}
