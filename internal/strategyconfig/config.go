package strategyconfig

// Config는 SEPA 스크리닝 전략의 전체 설정
type Config struct {
	Meta             Meta             `yaml:"meta" json:"meta"`
	Universe         Universe         `yaml:"universe" json:"universe"`
	Fundamentals     Fundamentals     `yaml:"fundamentals" json:"fundamentals"`
	Trend            Trend            `yaml:"trend" json:"trend"`
	RelativeStrength RelativeStrength `yaml:"relative_strength" json:"relative_strength"`
	Patterns         Patterns         `yaml:"patterns" json:"patterns"`
	Ranking          Ranking          `yaml:"ranking" json:"ranking"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID  string `yaml:"strategy_id" json:"strategy_id"`
	Version     string `yaml:"version" json:"version"`
	Timezone    string `yaml:"timezone" json:"timezone"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Universe 분석 대상 종목
type Universe struct {
	HistoryStart string   `yaml:"history_start" json:"history_start"` // YYYY-MM-DD
	Symbols      []Symbol `yaml:"symbols" json:"symbols"`
}

// Symbol is one configured stock. corp_code may be empty; the DART client
// resolves it from the corp code list.
type Symbol struct {
	Code     string `yaml:"code" json:"code"`
	CorpCode string `yaml:"corp_code,omitempty" json:"corp_code,omitempty"`
	Name     string `yaml:"name" json:"name"`
}

// Fundamentals S2: 성장성/재무 건전성
type Fundamentals struct {
	Thresholds        FundamentalThresholds `yaml:"thresholds" json:"thresholds"`
	Weights           FundamentalWeights    `yaml:"weights" json:"weights"`
	MinCriteriaPassed int                   `yaml:"min_criteria_passed" json:"min_criteria_passed"`
}

type FundamentalThresholds struct {
	SalesGrowthPctMin           float64 `yaml:"sales_growth_pct_min" json:"sales_growth_pct_min"`
	OperatingIncomeGrowthPctMin float64 `yaml:"operating_income_growth_pct_min" json:"operating_income_growth_pct_min"`
	ROEPctMin                   float64 `yaml:"roe_pct_min" json:"roe_pct_min"`
	DebtRatioPctMax             float64 `yaml:"debt_ratio_pct_max" json:"debt_ratio_pct_max"`
}

type FundamentalWeights struct {
	SalesGrowth           float64 `yaml:"sales_growth" json:"sales_growth"`
	OperatingIncomeGrowth float64 `yaml:"operating_income_growth" json:"operating_income_growth"`
	ROE                   float64 `yaml:"roe" json:"roe"`
	DebtRatio             float64 `yaml:"debt_ratio" json:"debt_ratio"`
}

// Sum returns the sum of all weights
func (w FundamentalWeights) Sum() float64 {
	return w.SalesGrowth + w.OperatingIncomeGrowth + w.ROE + w.DebtRatio
}

// Trend S1: 추세 템플릿
type Trend struct {
	MAWindows      Windows `yaml:"ma_windows" json:"ma_windows"`
	SlopeLookbacks Windows `yaml:"slope_lookbacks" json:"slope_lookbacks"`
	RangeBars      int     `yaml:"range_bars" json:"range_bars"`
	LowMultiple    float64 `yaml:"low_multiple" json:"low_multiple"`
	HighMultiple   float64 `yaml:"high_multiple" json:"high_multiple"`
}

type Windows struct {
	Short int `yaml:"short" json:"short"`
	Mid   int `yaml:"mid" json:"mid"`
	Long  int `yaml:"long" json:"long"`
}

// RelativeStrength S3: 상대적 강도
type RelativeStrength struct {
	ShortBars      int     `yaml:"short_bars" json:"short_bars"`
	LongBars       int     `yaml:"long_bars" json:"long_bars"`
	ShortFullPct   float64 `yaml:"short_full_pct" json:"short_full_pct"`
	LongFullPct    float64 `yaml:"long_full_pct" json:"long_full_pct"`
	ShortWeight    float64 `yaml:"short_weight" json:"short_weight"`
	LongWeight     float64 `yaml:"long_weight" json:"long_weight"`
	FilterMinScore float64 `yaml:"filter_min_score" json:"filter_min_score"`
}

// Patterns S4: 차트 패턴
type Patterns struct {
	VCPWindow            int            `yaml:"vcp_window" json:"vcp_window"`
	PocketPivot          PocketPivot    `yaml:"pocket_pivot" json:"pocket_pivot"`
	Bollinger            Bollinger      `yaml:"bollinger" json:"bollinger"`
	BreakoutVolumeWindow int            `yaml:"breakout_volume_window" json:"breakout_volume_window"`
	RecentWindowDays     int            `yaml:"recent_window_days" json:"recent_window_days"`
	MaxEventsPerKind     int            `yaml:"max_events_per_kind" json:"max_events_per_kind"`
	SecondEventFactor    float64        `yaml:"second_event_factor" json:"second_event_factor"`
	Weights              PatternWeights `yaml:"weights" json:"weights"`
}

type PocketPivot struct {
	VolumeMultiple float64 `yaml:"volume_multiple" json:"volume_multiple"`
	VolumeWindow   int     `yaml:"volume_window" json:"volume_window"`
}

type Bollinger struct {
	Window int     `yaml:"window" json:"window"`
	StdDev float64 `yaml:"std_dev" json:"std_dev"`
}

type PatternWeights struct {
	VCP         float64 `yaml:"vcp" json:"vcp"`
	PocketPivot float64 `yaml:"pocket_pivot" json:"pocket_pivot"`
	Breakout    float64 `yaml:"breakout" json:"breakout"`
}

// Ranking 종합 점수 가중치와 추천 기준
type Ranking struct {
	WeightsPct     RankingWeights `yaml:"weights_pct" json:"weights_pct"`
	Recommendation Cutoffs        `yaml:"recommendation" json:"recommendation"`
	Selection      Selection      `yaml:"selection" json:"selection"`
}

type RankingWeights struct {
	Trend       int `yaml:"trend" json:"trend"`
	Fundamental int `yaml:"fundamental" json:"fundamental"`
	RS          int `yaml:"rs" json:"rs"`
	Pattern     int `yaml:"pattern" json:"pattern"`
}

// Sum returns the sum of all weights
func (w RankingWeights) Sum() int {
	return w.Trend + w.Fundamental + w.RS + w.Pattern
}

type Cutoffs struct {
	StrongBuy float64 `yaml:"strong_buy" json:"strong_buy"`
	Buy       float64 `yaml:"buy" json:"buy"`
	Hold      float64 `yaml:"hold" json:"hold"`
}

// Selection 리더보드에서 최종 종목을 고르는 정책
type Selection struct {
	PassedOnly        bool    `yaml:"passed_only" json:"passed_only"`
	MinRecommendation string  `yaml:"min_recommendation,omitempty" json:"min_recommendation,omitempty"`
	MinTotal          float64 `yaml:"min_total" json:"min_total"`
	TopN              int     `yaml:"top_n" json:"top_n"`
}
