package strategyconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/s2_signals"
	"github.com/wonny/sepa/backend/internal/selection"
)

const shippedPath = "../../config/strategy/sepa_semiconductor.yaml"

func TestLoad_ShippedStrategy(t *testing.T) {
	cfg, yamlData, err := Load(shippedPath)
	require.NoError(t, err)
	require.NotEmpty(t, yamlData)

	assert.Equal(t, "sepa_semiconductor", cfg.Meta.StrategyID)
	assert.Len(t, cfg.Universe.Symbols, 18)
	assert.Equal(t, Default(), cfg, "shipped YAML and Default() must agree")
}

func TestHash(t *testing.T) {
	cfg := Default()

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// 동일 설정 → 동일 해시
	hash2, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)

	cfg.Ranking.Recommendation.Buy = 0.65
	hash3, err := Hash(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash3)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	_, err = Parse(append(data, []byte("unknown_section: 1\n")...))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing strategy id", func(c *Config) { c.Meta.StrategyID = "" }, "meta.strategy_id"},
		{"bad timezone", func(c *Config) { c.Meta.Timezone = "Mars/Olympus" }, "meta.timezone"},
		{"empty universe", func(c *Config) { c.Universe.Symbols = nil }, "universe.symbols"},
		{"bad code", func(c *Config) { c.Universe.Symbols[0].Code = "5930" }, "universe.symbols[0].code"},
		{"duplicate code", func(c *Config) { c.Universe.Symbols[1].Code = "005930" }, "universe.symbols[1].code"},
		{"bad history start", func(c *Config) { c.Universe.HistoryStart = "2020/01/01" }, "universe.history_start"},
		{"fundamental weights", func(c *Config) { c.Fundamentals.Weights.ROE = 0.3 }, "fundamentals.weights"},
		{"min criteria", func(c *Config) { c.Fundamentals.MinCriteriaPassed = 5 }, "fundamentals.min_criteria_passed"},
		{"ma order", func(c *Config) { c.Trend.MAWindows.Short = 300 }, "trend.ma_windows"},
		{"rs weights", func(c *Config) { c.RelativeStrength.LongWeight = 0.5 }, "relative_strength.weights"},
		{"vcp window", func(c *Config) { c.Patterns.VCPWindow = 1 }, "patterns.vcp_window"},
		{"pattern weight", func(c *Config) { c.Patterns.Weights.VCP = 1.5 }, "patterns.weights.vcp"},
		{"ranking weights", func(c *Config) { c.Ranking.WeightsPct.Trend = 30 }, "ranking.weights_pct"},
		{"cutoff order", func(c *Config) { c.Ranking.Recommendation.Buy = 0.9 }, "ranking.recommendation"},
		{"unknown recommendation", func(c *Config) { c.Ranking.Selection.MinRecommendation = "moon" }, "ranking.selection.min_recommendation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var verr ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.NoError(t, Validate(Default()))
}

func TestWarn(t *testing.T) {
	codes := func(ws []Warning) []string {
		out := make([]string, len(ws))
		for i, w := range ws {
			out[i] = w.Code
		}
		return out
	}

	cfg := Default()
	assert.Equal(t, []string{"CORP_CODE_LOOKUP"}, codes(Warn(cfg)))

	cfg.Trend.RangeBars = 100
	cfg.Patterns.SecondEventFactor = 0
	cfg.Patterns.Weights = PatternWeights{VCP: 0.2, PocketPivot: 0.2, Breakout: 0.2}
	assert.Equal(t, []string{"LONG_MA_EXCEEDS_RANGE", "CORP_CODE_LOOKUP", "PATTERN_SCORE_CAPPED"}, codes(Warn(cfg)))
}

func TestToSignalsConfig(t *testing.T) {
	assert.Equal(t, s2_signals.DefaultConfig(), Default().ToSignalsConfig())
}

func TestToUniverse(t *testing.T) {
	u := Default().ToUniverse()
	require.Equal(t, 18, u.Count())

	s, ok := u.Lookup("000660")
	require.True(t, ok)
	assert.Equal(t, contracts.Symbol{Code: "000660", CorpCode: "00164779", Name: "SK하이닉스"}, s)
	assert.Equal(t, "005930", u.Codes()[0])
}

func TestToScreenerConfig(t *testing.T) {
	assert.Equal(t, selection.DefaultScreenerConfig(), Default().ToScreenerConfig())
}

func TestHistoryStart(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2020, cfg.HistoryStart().Year())

	cfg.Universe.HistoryStart = "2023-06-01"
	assert.Equal(t, "2023-06-01", cfg.HistoryStart().Format("2006-01-02"))
}
