package strategyconfig

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var stockCodeRe = regexp.MustCompile(`^\d{6}$`)

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	// === Universe ===
	if len(cfg.Universe.Symbols) == 0 {
		return ValidationError{"universe.symbols", "must not be empty"}
	}
	seen := make(map[string]bool, len(cfg.Universe.Symbols))
	for i, s := range cfg.Universe.Symbols {
		field := fmt.Sprintf("universe.symbols[%d].code", i)
		if !stockCodeRe.MatchString(s.Code) {
			return ValidationError{field, fmt.Sprintf("must be a 6-digit stock code, got %q", s.Code)}
		}
		if seen[s.Code] {
			return ValidationError{field, fmt.Sprintf("duplicate code %s", s.Code)}
		}
		seen[s.Code] = true
	}
	if cfg.Universe.HistoryStart != "" {
		if _, err := time.Parse("2006-01-02", cfg.Universe.HistoryStart); err != nil {
			return ValidationError{"universe.history_start", "must be YYYY-MM-DD"}
		}
	}

	// === Fundamentals ===
	f := cfg.Fundamentals
	if err := validateWeightsSum([]float64{
		f.Weights.SalesGrowth, f.Weights.OperatingIncomeGrowth, f.Weights.ROE, f.Weights.DebtRatio,
	}, 1.0, 1e-6); err != nil {
		return ValidationError{"fundamentals.weights", err.Error()}
	}
	if f.MinCriteriaPassed < 1 || f.MinCriteriaPassed > 4 {
		return ValidationError{"fundamentals.min_criteria_passed", "must be in [1, 4]"}
	}
	if f.Thresholds.DebtRatioPctMax <= 0 {
		return ValidationError{"fundamentals.thresholds.debt_ratio_pct_max", "must be > 0"}
	}

	// === Trend ===
	t := cfg.Trend
	if err := validateWindows(t.MAWindows, "trend.ma_windows"); err != nil {
		return err
	}
	if err := validateWindows(t.SlopeLookbacks, "trend.slope_lookbacks"); err != nil {
		return err
	}
	if t.RangeBars <= 0 {
		return ValidationError{"trend.range_bars", "must be > 0"}
	}
	if t.LowMultiple <= 0 || t.HighMultiple <= 0 {
		return ValidationError{"trend", "low_multiple and high_multiple must be > 0"}
	}

	// === Relative strength ===
	rs := cfg.RelativeStrength
	if rs.ShortBars <= 0 || rs.LongBars <= 0 {
		return ValidationError{"relative_strength", "short_bars and long_bars must be > 0"}
	}
	if rs.ShortFullPct <= 0 || rs.LongFullPct <= 0 {
		return ValidationError{"relative_strength", "short_full_pct and long_full_pct must be > 0"}
	}
	if err := validateWeightsSum([]float64{rs.ShortWeight, rs.LongWeight}, 1.0, 1e-6); err != nil {
		return ValidationError{"relative_strength.weights", err.Error()}
	}
	if err := validatePctRange(rs.FilterMinScore, "relative_strength.filter_min_score"); err != nil {
		return err
	}

	// === Patterns ===
	p := cfg.Patterns
	if p.VCPWindow < 2 {
		return ValidationError{"patterns.vcp_window", "must be >= 2"}
	}
	if p.PocketPivot.VolumeMultiple <= 0 || p.PocketPivot.VolumeWindow <= 0 {
		return ValidationError{"patterns.pocket_pivot", "volume_multiple and volume_window must be > 0"}
	}
	if p.Bollinger.Window < 2 || p.Bollinger.StdDev <= 0 {
		return ValidationError{"patterns.bollinger", "window must be >= 2 and std_dev > 0"}
	}
	if p.BreakoutVolumeWindow <= 0 {
		return ValidationError{"patterns.breakout_volume_window", "must be > 0"}
	}
	if p.RecentWindowDays <= 0 {
		return ValidationError{"patterns.recent_window_days", "must be > 0"}
	}
	if p.MaxEventsPerKind < 1 {
		return ValidationError{"patterns.max_events_per_kind", "must be >= 1"}
	}
	if err := validatePctRange(p.SecondEventFactor, "patterns.second_event_factor"); err != nil {
		return err
	}
	for field, w := range map[string]float64{
		"patterns.weights.vcp":          p.Weights.VCP,
		"patterns.weights.pocket_pivot": p.Weights.PocketPivot,
		"patterns.weights.breakout":     p.Weights.Breakout,
	} {
		if err := validatePctRange(w, field); err != nil {
			return err
		}
	}

	// === Ranking ===
	r := cfg.Ranking
	if r.WeightsPct.Sum() != 100 {
		return ValidationError{"ranking.weights_pct", fmt.Sprintf("must sum to 100, got %d", r.WeightsPct.Sum())}
	}
	for _, w := range []int{r.WeightsPct.Trend, r.WeightsPct.Fundamental, r.WeightsPct.RS, r.WeightsPct.Pattern} {
		if w < 0 {
			return ValidationError{"ranking.weights_pct", "weights must be >= 0"}
		}
	}
	c := r.Recommendation
	if !(0 <= c.Hold && c.Hold <= c.Buy && c.Buy <= c.StrongBuy && c.StrongBuy <= 1) {
		return ValidationError{"ranking.recommendation", "must satisfy 0 <= hold <= buy <= strong_buy <= 1"}
	}
	if s := r.Selection.MinRecommendation; s != "" {
		if _, ok := contracts.ParseRecommendation(s); !ok {
			return ValidationError{"ranking.selection.min_recommendation", fmt.Sprintf("unknown recommendation %q", s)}
		}
	}
	if r.Selection.TopN < 0 {
		return ValidationError{"ranking.selection.top_n", "must be >= 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 52주 범위보다 이동평균 기간이 길면 추세 판단이 불안정
	if cfg.Trend.MAWindows.Long > cfg.Trend.RangeBars {
		warnings = append(warnings, Warning{
			Code:    "LONG_MA_EXCEEDS_RANGE",
			Message: "ma_windows.long > range_bars: 52주 범위보다 긴 이동평균",
		})
	}

	// corp_code 미지정 종목은 실행 시 DART 고유번호 목록 조회 필요
	missing := 0
	for _, s := range cfg.Universe.Symbols {
		if s.CorpCode == "" {
			missing++
		}
	}
	if missing > 0 {
		warnings = append(warnings, Warning{
			Code:    "CORP_CODE_LOOKUP",
			Message: fmt.Sprintf("%d개 종목 corp_code 미지정: DART corpCode 조회 필요", missing),
		})
	}

	// 패턴 가중치 합이 1 미만이면 패턴 점수 만점 불가
	pw := cfg.Patterns.Weights
	maxPattern := (pw.VCP + pw.PocketPivot + pw.Breakout) * (1 + cfg.Patterns.SecondEventFactor)
	if maxPattern < 1 {
		warnings = append(warnings, Warning{
			Code:    "PATTERN_SCORE_CAPPED",
			Message: fmt.Sprintf("패턴 점수 최대 %.2f < 1.0", maxPattern),
		})
	}

	return warnings
}

// === Helper Functions ===

func validateWindows(w Windows, field string) error {
	if w.Short <= 0 || w.Mid <= 0 || w.Long <= 0 {
		return ValidationError{field, "all windows must be > 0"}
	}
	if !(w.Short <= w.Mid && w.Mid <= w.Long) {
		return ValidationError{field, "must satisfy short <= mid <= long"}
	}
	return nil
}

func validateWeightsSum(weights []float64, target float64, epsilon float64) error {
	if len(weights) == 0 {
		return errors.New("must not be empty")
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return errors.New("weights must be >= 0")
		}
		sum += w
	}
	if math.Abs(sum-target) > epsilon {
		return fmt.Errorf("must sum to %.2f, got %.4f", target, sum)
	}
	return nil
}

// validatePctRange는 비율 값이 0~1 범위인지 검증
func validatePctRange(pct float64, field string) error {
	if pct < 0 || pct > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}
