package strategyconfig

import (
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/fundamental"
	"github.com/wonny/sepa/backend/internal/pattern"
	"github.com/wonny/sepa/backend/internal/s2_signals"
	"github.com/wonny/sepa/backend/internal/selection"
)

// ToSignalsConfig maps the strategy onto the scoring engine parameters
func (c *Config) ToSignalsConfig() s2_signals.Config {
	f, t, rs, p, r := c.Fundamentals, c.Trend, c.RelativeStrength, c.Patterns, c.Ranking

	return s2_signals.Config{
		Trend: s2_signals.TrendConfig{
			MAShort: t.MAWindows.Short, MAMid: t.MAWindows.Mid, MALong: t.MAWindows.Long,
			SlopeShort: t.SlopeLookbacks.Short, SlopeMid: t.SlopeLookbacks.Mid, SlopeLong: t.SlopeLookbacks.Long,
			RangeBars:    t.RangeBars,
			LowMultiple:  t.LowMultiple,
			HighMultiple: t.HighMultiple,
		},
		Fundamental: s2_signals.FundamentalConfig{
			Thresholds: fundamental.Thresholds{
				SalesGrowth:           f.Thresholds.SalesGrowthPctMin,
				OperatingIncomeGrowth: f.Thresholds.OperatingIncomeGrowthPctMin,
				ROE:                   f.Thresholds.ROEPctMin,
				DebtRatio:             f.Thresholds.DebtRatioPctMax,
			},
			SalesGrowthWeight: f.Weights.SalesGrowth,
			OpIncomeWeight:    f.Weights.OperatingIncomeGrowth,
			ROEWeight:         f.Weights.ROE,
			DebtRatioWeight:   f.Weights.DebtRatio,
			MinCriteriaPassed: f.MinCriteriaPassed,
		},
		RS: s2_signals.RSConfig{
			ShortBars:      rs.ShortBars,
			LongBars:       rs.LongBars,
			ShortFullPct:   rs.ShortFullPct,
			LongFullPct:    rs.LongFullPct,
			ShortWeight:    rs.ShortWeight,
			LongWeight:     rs.LongWeight,
			FilterMinScore: rs.FilterMinScore,
		},
		Pattern: s2_signals.PatternConfig{
			Detector: pattern.Config{
				VCPWindow:                 p.VCPWindow,
				PocketPivotVolumeMultiple: p.PocketPivot.VolumeMultiple,
				PocketPivotVolumeWindow:   p.PocketPivot.VolumeWindow,
				BollingerWindow:           p.Bollinger.Window,
				BollingerStdDev:           p.Bollinger.StdDev,
				BreakoutVolumeWindow:      p.BreakoutVolumeWindow,
			},
			WindowDays:        p.RecentWindowDays,
			MaxEventsPerKind:  p.MaxEventsPerKind,
			SecondEventFactor: p.SecondEventFactor,
			Weights: map[contracts.PatternKind]float64{
				contracts.PatternVCP:         p.Weights.VCP,
				contracts.PatternPocketPivot: p.Weights.PocketPivot,
				contracts.PatternBreakout:    p.Weights.Breakout,
			},
		},
		Composite: s2_signals.CompositeWeights{
			Trend:       float64(r.WeightsPct.Trend) / 100,
			Fundamental: float64(r.WeightsPct.Fundamental) / 100,
			RS:          float64(r.WeightsPct.RS) / 100,
			Pattern:     float64(r.WeightsPct.Pattern) / 100,
		},
		Recommendation: s2_signals.RecommendationCutoffs{
			StrongBuy: r.Recommendation.StrongBuy,
			Buy:       r.Recommendation.Buy,
			Hold:      r.Recommendation.Hold,
		},
	}
}

// ToUniverse returns the configured symbols in file order
func (c *Config) ToUniverse() contracts.Universe {
	symbols := make([]contracts.Symbol, len(c.Universe.Symbols))
	for i, s := range c.Universe.Symbols {
		symbols[i] = contracts.Symbol{Code: s.Code, CorpCode: s.CorpCode, Name: s.Name}
	}
	return contracts.Universe{Symbols: symbols}
}

// ToScreenerConfig returns the leaderboard selection policy
func (c *Config) ToScreenerConfig() selection.ScreenerConfig {
	s := c.Ranking.Selection
	rec, _ := contracts.ParseRecommendation(s.MinRecommendation)
	return selection.ScreenerConfig{
		PassedOnly:        s.PassedOnly,
		MinRecommendation: rec,
		MinTotal:          s.MinTotal,
		TopN:              s.TopN,
	}
}

// HistoryStart returns the first date of price history to load
func (c *Config) HistoryStart() time.Time {
	t, err := time.Parse("2006-01-02", c.Universe.HistoryStart)
	if err != nil {
		return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}
