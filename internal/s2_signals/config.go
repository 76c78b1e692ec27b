package s2_signals

import (
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/fundamental"
	"github.com/wonny/sepa/backend/internal/pattern"
)

// Config holds every weight and threshold of the SEPA scoring
// SSOT: config/strategy/sepa_semiconductor.yaml (strategyconfig.ToSignalsConfig)
type Config struct {
	Trend          TrendConfig
	Fundamental    FundamentalConfig
	RS             RSConfig
	Pattern        PatternConfig
	Composite      CompositeWeights
	Recommendation RecommendationCutoffs
}

// TrendConfig configures the trend template
type TrendConfig struct {
	MAShort, MAMid, MALong          int // 50 / 150 / 200
	SlopeShort, SlopeMid, SlopeLong int // 5 / 10 / 20 bars
	RangeBars                       int // 52주 ≈ 250 거래일
	LowMultiple                     float64
	HighMultiple                    float64
}

// FundamentalConfig configures the fundamental score and filter
type FundamentalConfig struct {
	Thresholds        fundamental.Thresholds
	SalesGrowthWeight float64
	OpIncomeWeight    float64
	ROEWeight         float64
	DebtRatioWeight   float64
	MinCriteriaPassed int
}

// RSConfig configures the relative-strength score and filter
type RSConfig struct {
	ShortBars      int     // 13주 ≈ 65 거래일
	LongBars       int     // 26주 ≈ 130 거래일
	ShortFullPct   float64 // 만점 수익률 (13주)
	LongFullPct    float64 // 만점 수익률 (26주)
	ShortWeight    float64
	LongWeight     float64
	FilterMinScore float64
}

// PatternConfig configures pattern scoring
type PatternConfig struct {
	Detector          pattern.Config
	WindowDays        int
	MaxEventsPerKind  int
	SecondEventFactor float64
	Weights           map[contracts.PatternKind]float64
}

// CompositeWeights are the stage weights of the total score
type CompositeWeights struct {
	Trend       float64
	Fundamental float64
	RS          float64
	Pattern     float64
}

// RecommendationCutoffs are the composite thresholds per label
type RecommendationCutoffs struct {
	StrongBuy float64
	Buy       float64
	Hold      float64
}

// DefaultConfig returns the standard SEPA parameters
func DefaultConfig() Config {
	return Config{
		Trend: TrendConfig{
			MAShort: 50, MAMid: 150, MALong: 200,
			SlopeShort: 5, SlopeMid: 10, SlopeLong: 20,
			RangeBars:    250,
			LowMultiple:  1.3,
			HighMultiple: 0.75,
		},
		Fundamental: FundamentalConfig{
			Thresholds:        fundamental.DefaultThresholds(),
			SalesGrowthWeight: 0.3,
			OpIncomeWeight:    0.3,
			ROEWeight:         0.2,
			DebtRatioWeight:   0.2,
			MinCriteriaPassed: 3,
		},
		RS: RSConfig{
			ShortBars:      65,
			LongBars:       130,
			ShortFullPct:   20,
			LongFullPct:    30,
			ShortWeight:    0.6,
			LongWeight:     0.4,
			FilterMinScore: 0.7,
		},
		Pattern: PatternConfig{
			Detector:          pattern.DefaultConfig(),
			WindowDays:        30,
			MaxEventsPerKind:  2,
			SecondEventFactor: 0.5,
			Weights: map[contracts.PatternKind]float64{
				contracts.PatternVCP:         0.4,
				contracts.PatternPocketPivot: 0.3,
				contracts.PatternBreakout:    0.3,
			},
		},
		Composite: CompositeWeights{
			Trend:       0.25,
			Fundamental: 0.30,
			RS:          0.20,
			Pattern:     0.25,
		},
		Recommendation: RecommendationCutoffs{
			StrongBuy: 0.8,
			Buy:       0.6,
			Hold:      0.4,
		},
	}
}

// clamp01 bounds v to [0, 1]; NaN becomes 0
func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
