package contracts

import "time"

// FundamentalMetrics holds the growth and balance-sheet ratios of one stock (%)
// ⭐ SSOT: 재무 지표는 매 스코어링마다 재계산 (저장하지 않음)
type FundamentalMetrics struct {
	SalesGrowthPct           float64 `json:"sales_growth"`
	OperatingIncomeGrowthPct float64 `json:"operating_income_growth"`
	ROEPct                   float64 `json:"roe"`
	DebtRatioPct             float64 `json:"debt_ratio"`
}

// IsZero reports whether every metric is exactly zero
func (m FundamentalMetrics) IsZero() bool {
	return m.SalesGrowthPct == 0 && m.OperatingIncomeGrowthPct == 0 &&
		m.ROEPct == 0 && m.DebtRatioPct == 0
}

// FundamentalCriteria records which SEPA fundamental thresholds hold
type FundamentalCriteria struct {
	SalesGrowth           bool `json:"sales_growth"`
	OperatingIncomeGrowth bool `json:"operating_income_growth"`
	ROE                   bool `json:"roe"`
	DebtRatio             bool `json:"debt_ratio"`
}

// PassedCount returns how many criteria hold
func (c FundamentalCriteria) PassedCount() int {
	n := 0
	for _, ok := range []bool{c.SalesGrowth, c.OperatingIncomeGrowth, c.ROE, c.DebtRatio} {
		if ok {
			n++
		}
	}
	return n
}

// TrendConditions are the four trend template checks
type TrendConditions struct {
	PriceAboveMA bool `json:"price_above_ma"` // 종가 > MA50, MA150, MA200
	MAAlignment  bool `json:"ma_alignment"`   // MA50 > MA150 > MA200
	MASlope      bool `json:"ma_slope"`       // 각 이평선 상승 중
	PriceVs52W   bool `json:"price_vs_52w"`   // 52주 저점 대비 +30%, 고점 대비 -25% 이내
}

// Count returns how many conditions hold
func (t TrendConditions) Count() int {
	n := 0
	for _, ok := range []bool{t.PriceAboveMA, t.MAAlignment, t.MASlope, t.PriceVs52W} {
		if ok {
			n++
		}
	}
	return n
}

// AllHold reports whether all four conditions hold
func (t TrendConditions) AllHold() bool {
	return t.Count() == 4
}

// RSDetail holds the trailing returns behind the RS score (%)
type RSDetail struct {
	Return13W float64 `json:"return_13w"`
	Return26W float64 `json:"return_26w"`
}

// PatternKind identifies a chart pattern
type PatternKind string

const (
	PatternVCP         PatternKind = "vcp"
	PatternPocketPivot PatternKind = "pocket_pivot"
	PatternBreakout    PatternKind = "breakout"
)

// AllPatternKinds returns the pattern kinds in display order
func AllPatternKinds() []PatternKind {
	return []PatternKind{PatternVCP, PatternPocketPivot, PatternBreakout}
}

// BreakoutDirection tells which Bollinger band was crossed
type BreakoutDirection string

const (
	DirectionUpper BreakoutDirection = "upper"
	DirectionLower BreakoutDirection = "lower"
)

// PatternEvent is one detected pattern occurrence
type PatternEvent struct {
	Kind      PatternKind       `json:"kind"`
	Date      time.Time         `json:"date"`
	Price     float64           `json:"price"`
	Volume    int64             `json:"volume"`
	Strength  float64           `json:"strength"` // 0.1 ~ 1.0
	Direction BreakoutDirection `json:"direction,omitempty"`
}

// PatternSet groups detected events by kind, each list in date order
type PatternSet map[PatternKind][]PatternEvent

// Count returns the total number of events
func (s PatternSet) Count() int {
	n := 0
	for _, events := range s {
		n += len(events)
	}
	return n
}

// FilterResult holds the three SEPA gate outcomes
type FilterResult struct {
	Trend       bool `json:"trend"`
	Fundamental bool `json:"fundamental"`
	RS          bool `json:"rs"`
}

// AllPassed reports whether every gate passed
func (f FilterResult) AllPassed() bool {
	return f.Trend && f.Fundamental && f.RS
}

// ScoreBundle is the per-stock scoring result
// ⭐ SSOT: S2 → S3/S4 스코어 전달
type ScoreBundle struct {
	Total          float64        `json:"total"`
	Trend          float64        `json:"trend"`
	Fundamental    float64        `json:"fundamental"`
	RS             float64        `json:"rs"`
	Pattern        float64        `json:"pattern"`
	Filters        FilterResult   `json:"filters"`
	Recommendation Recommendation `json:"recommendation"`
	Warnings       []Warning      `json:"warnings,omitempty"`
}

// Recommendation is the investment label derived from the composite score
type Recommendation string

const (
	RecommendStrongBuy Recommendation = "strong buy"
	RecommendBuy       Recommendation = "buy"
	RecommendHold      Recommendation = "hold"
	RecommendSell      Recommendation = "sell"
)

// Description returns the Korean label shown on the dashboard
func (r Recommendation) Description() string {
	switch r {
	case RecommendStrongBuy:
		return "강력 매수"
	case RecommendBuy:
		return "매수"
	case RecommendHold:
		return "관망"
	case RecommendSell:
		return "매도"
	default:
		return "알 수 없음"
	}
}

// Level orders recommendations from sell (0) to strong buy (3); unknown is -1
func (r Recommendation) Level() int {
	switch r {
	case RecommendStrongBuy:
		return 3
	case RecommendBuy:
		return 2
	case RecommendHold:
		return 1
	case RecommendSell:
		return 0
	default:
		return -1
	}
}

// ParseRecommendation accepts the English value or the Korean label
func ParseRecommendation(s string) (Recommendation, bool) {
	for _, r := range []Recommendation{RecommendStrongBuy, RecommendBuy, RecommendHold, RecommendSell} {
		if s == string(r) || s == r.Description() {
			return r, true
		}
	}
	return "", false
}

// WarningCode classifies a degraded input
type WarningCode string

const (
	WarnMissingData      WarningCode = "missing_data"
	WarnMalformedAmount  WarningCode = "malformed_amount"
	WarnComputationGuard WarningCode = "computation_guard"
)

// Warning explains why a score was degraded. Scoring never fails; it reports.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
