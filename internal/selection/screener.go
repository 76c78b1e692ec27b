package selection

import (
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Screener picks the actionable rows of a leaderboard
// ⭐ SSOT: 종목 선별 정책은 여기서만
type Screener struct {
	config ScreenerConfig
	logger *logger.Logger
}

// ScreenerConfig defines the selection policy
// SSOT: config/strategy/sepa_semiconductor.yaml ranking
type ScreenerConfig struct {
	PassedOnly        bool                     // 모든 필터 통과 종목만
	MinRecommendation contracts.Recommendation // 최소 추천 등급 (빈 값이면 제한 없음)
	MinTotal          float64                  // 종합 점수 하한
	TopN              int                      // 상위 N개 (0이면 전체)
}

// NewScreener creates a new screener
func NewScreener(config ScreenerConfig, logger *logger.Logger) *Screener {
	return &Screener{
		config: config,
		logger: logger,
	}
}

// Screen applies the policy to ranked rows, keeping their order and ranks.
// It returns the selected rows and the per-reason count of rows left out.
func (s *Screener) Screen(ranked []contracts.RankedStock) ([]contracts.RankedStock, map[string]int) {
	passed := make([]contracts.RankedStock, 0, len(ranked))
	filtered := make(map[string]int)

	for _, r := range ranked {
		if reason := s.checkConditions(r); reason != "" {
			filtered[reason]++
			continue
		}
		if s.config.TopN > 0 && len(passed) >= s.config.TopN {
			filtered["top_n"]++
			continue
		}
		passed = append(passed, r)
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(ranked),
		"passed":       len(passed),
		"filtered_out": len(ranked) - len(passed),
		"filters":      filtered,
	}).Info("Screening completed")

	return passed, filtered
}

// checkConditions returns the first failing rule, or "" when r is selected
func (s *Screener) checkConditions(r contracts.RankedStock) string {
	if s.config.PassedOnly && !r.Bundle.Filters.AllPassed() {
		return "filters"
	}

	if s.config.MinRecommendation != "" &&
		r.Bundle.Recommendation.Level() < s.config.MinRecommendation.Level() {
		return "recommendation"
	}

	if r.Bundle.Total < s.config.MinTotal {
		return "total"
	}

	return ""
}

// DefaultScreenerConfig selects every filter-passing stock rated buy or better
func DefaultScreenerConfig() ScreenerConfig {
	return ScreenerConfig{
		PassedOnly:        true,
		MinRecommendation: contracts.RecommendBuy,
	}
}
