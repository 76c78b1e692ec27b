package contracts

// SEPA Stage 정의 (SSOT)
// 로그, 상세 화면, API 응답에서 이 상수를 사용해야 함
//
// 스크리닝 흐름:
//   S1 → S2 → S3 → S4
//   Trend  Fundamental  RS  Pattern

// Stage represents one SEPA scoring stage
type Stage string

const (
	// StageTrend S1: 기술적 추세 (가중치 25%)
	// 위치: internal/s2_signals/trend.go
	StageTrend Stage = "S1_TREND"

	// StageFundamental S2: 기본적 성장성 (가중치 30%)
	// 위치: internal/s2_signals/fundamental.go
	StageFundamental Stage = "S2_FUNDAMENTAL"

	// StageRS S3: 상대적 강도 (가중치 20%)
	// 위치: internal/s2_signals/rs.go
	StageRS Stage = "S3_RS"

	// StagePattern S4: 차트 패턴 (가중치 25%, 필터 없음)
	// 위치: internal/s2_signals/pattern.go
	StagePattern Stage = "S4_PATTERN"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageTrend:
		return "S1"
	case StageFundamental:
		return "S2"
	case StageRS:
		return "S3"
	case StagePattern:
		return "S4"
	default:
		return "UNKNOWN"
	}
}

// Description returns Korean description of the stage
func (s Stage) Description() string {
	switch s {
	case StageTrend:
		return "기술적 추세"
	case StageFundamental:
		return "기본적 성장성"
	case StageRS:
		return "상대적 강도"
	case StagePattern:
		return "패턴"
	default:
		return "알 수 없음"
	}
}

// HasFilter reports whether the stage gates recommendations
func (s Stage) HasFilter() bool {
	return s != StagePattern
}

// AllStages returns all stages in order
func AllStages() []Stage {
	return []Stage{StageTrend, StageFundamental, StageRS, StagePattern}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult is the score and gate outcome of one stage
type StageResult struct {
	Stage       Stage   `json:"stage"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	HasFilter   bool    `json:"has_filter"`
	Passed      bool    `json:"passed"`
}

// Stages breaks a bundle down by stage. Pattern has no gate and reports Passed=false.
func (b ScoreBundle) Stages() []StageResult {
	scores := map[Stage]float64{
		StageTrend:       b.Trend,
		StageFundamental: b.Fundamental,
		StageRS:          b.RS,
		StagePattern:     b.Pattern,
	}
	passed := map[Stage]bool{
		StageTrend:       b.Filters.Trend,
		StageFundamental: b.Filters.Fundamental,
		StageRS:          b.Filters.RS,
	}

	out := make([]StageResult, 0, 4)
	for _, s := range AllStages() {
		out = append(out, StageResult{
			Stage:       s,
			Description: s.Description(),
			Score:       scores[s],
			HasFilter:   s.HasFilter(),
			Passed:      passed[s],
		})
	}
	return out
}
