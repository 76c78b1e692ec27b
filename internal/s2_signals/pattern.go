package s2_signals

import (
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/pattern"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// PatternCalculator scores recent chart patterns (stage 4)
// ⭐ SSOT: 패턴 점수 계산은 여기서만 (평가 시각은 항상 명시적으로 전달)
type PatternCalculator struct {
	cfg    PatternConfig
	logger *logger.Logger
}

// NewPatternCalculator creates a new pattern calculator
func NewPatternCalculator(cfg PatternConfig, log *logger.Logger) *PatternCalculator {
	return &PatternCalculator{cfg: cfg, logger: log}
}

// Recent returns, per kind, the events the score counts: inside the trailing
// window, newest first, at most MaxEventsPerKind
func (c *PatternCalculator) Recent(set contracts.PatternSet, asOf time.Time) contracts.PatternSet {
	out := contracts.PatternSet{}
	for _, kind := range contracts.AllPatternKinds() {
		out[kind] = pattern.Recent(set[kind], asOf, c.cfg.WindowDays, c.cfg.MaxEventsPerKind)
	}
	return out
}

// Calculate returns the pattern score: full weight for the first recent
// event of a kind, SecondEventFactor × weight for the second
func (c *PatternCalculator) Calculate(set contracts.PatternSet, asOf time.Time) float64 {
	recent := c.Recent(set, asOf)

	score := 0.0
	for _, kind := range contracts.AllPatternKinds() {
		w := c.cfg.Weights[kind]
		n := len(recent[kind])
		if n >= 1 {
			score += w
		}
		if n >= 2 {
			score += w * c.cfg.SecondEventFactor
		}
	}
	score = clamp01(score)

	c.logger.WithFields(map[string]interface{}{
		"vcp":          len(recent[contracts.PatternVCP]),
		"pocket_pivot": len(recent[contracts.PatternPocketPivot]),
		"breakout":     len(recent[contracts.PatternBreakout]),
		"score":        score,
	}).Debug("Calculated pattern score")

	return score
}
