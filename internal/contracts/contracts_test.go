package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceSeries_Columns(t *testing.T) {
	s := PriceSeries{Code: "005930", Bars: []Bar{
		{Date: day(2), Open: 1, High: 3, Low: 0.5, Close: 2, Volume: 100},
		{Date: day(3), Open: 2, High: 4, Low: 1.5, Close: 3, Volume: 200},
	}}

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, []float64{2, 3}, s.Closes())
	assert.Equal(t, []float64{3, 4}, s.Highs())
	assert.Equal(t, []float64{0.5, 1.5}, s.Lows())
	assert.Equal(t, []float64{100, 200}, s.Volumes())

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 3.0, last.Close)

	_, ok = PriceSeries{}.Last()
	assert.False(t, ok)
}

func TestPriceSeries_Validate(t *testing.T) {
	ok := PriceSeries{Bars: []Bar{{Date: day(2)}, {Date: day(3)}}}
	assert.NoError(t, ok.Validate())

	dup := PriceSeries{Code: "000660", Bars: []Bar{{Date: day(2)}, {Date: day(2)}}}
	assert.Error(t, dup.Validate())

	assert.NoError(t, PriceSeries{}.Validate())
}

func TestPriceSeries_Until(t *testing.T) {
	s := PriceSeries{Bars: []Bar{{Date: day(2)}, {Date: day(3)}, {Date: day(6)}}}

	assert.Equal(t, 2, s.Until(day(4)).Len())
	assert.Equal(t, 3, s.Until(day(6)).Len())
	assert.Equal(t, 0, s.Until(day(1)).Len())
}

func TestTradeDate(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"KST midnight", time.Date(2025, 3, 14, 0, 0, 0, 0, kst), time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"KST late", time.Date(2025, 3, 14, 23, 30, 0, 0, kst), time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"UTC afternoon", time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC), time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TradeDate(tt.in))
		})
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		input string
		want  Scope
	}{
		{"CFS", ScopeConsolidated},
		{"cfs", ScopeConsolidated},
		{"consolidated", ScopeConsolidated},
		{"OFS", ScopeSeparate},
		{"separate", ScopeSeparate},
		{"", ScopeSeparate},
		{"garbage", ScopeSeparate},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScope(tt.input))
		})
	}

	assert.Equal(t, "CFS", ScopeConsolidated.DARTCode())
	assert.Equal(t, "OFS", ScopeSeparate.DARTCode())
}

func TestAccount_Matches(t *testing.T) {
	assert.True(t, AccountRevenue.Matches("매출액"))
	assert.True(t, AccountRevenue.Matches("revenue"))
	assert.True(t, AccountTotalEquity.Matches(" 자본총계 "))
	assert.False(t, AccountRevenue.Matches("영업이익"))
	assert.False(t, Account("unknown").Matches(""))
	assert.Len(t, RequiredAccounts(), 5)
}

func TestFundamentalCriteria_PassedCount(t *testing.T) {
	c := FundamentalCriteria{SalesGrowth: true, ROE: true, DebtRatio: true}
	assert.Equal(t, 3, c.PassedCount())
	assert.Equal(t, 0, FundamentalCriteria{}.PassedCount())
}

func TestTrendConditions(t *testing.T) {
	all := TrendConditions{true, true, true, true}
	assert.True(t, all.AllHold())
	assert.Equal(t, 2, TrendConditions{PriceAboveMA: true, MASlope: true}.Count())
}

func TestRecommendation(t *testing.T) {
	assert.Equal(t, "강력 매수", RecommendStrongBuy.Description())
	assert.Equal(t, "관망", RecommendHold.Description())
	assert.Greater(t, RecommendBuy.Level(), RecommendHold.Level())
	assert.Equal(t, -1, Recommendation("x").Level())

	r, ok := ParseRecommendation("매수")
	require.True(t, ok)
	assert.Equal(t, RecommendBuy, r)

	_, ok = ParseRecommendation("maybe")
	assert.False(t, ok)
}

func TestScoreBundle_Stages(t *testing.T) {
	b := ScoreBundle{Trend: 1, Fundamental: 0.5, RS: 0.7, Pattern: 0.3,
		Filters: FilterResult{Trend: true, RS: true}}

	stages := b.Stages()
	require.Len(t, stages, 4)
	assert.Equal(t, StageTrend, stages[0].Stage)
	assert.True(t, stages[0].Passed)
	assert.False(t, stages[1].Passed)
	assert.Equal(t, 0.3, stages[3].Score)
	assert.False(t, stages[3].HasFilter)
	assert.False(t, b.Filters.AllPassed())
}

func TestStage(t *testing.T) {
	assert.Equal(t, "S3", StageRS.ShortName())
	assert.True(t, IsValidStage("S4_PATTERN"))
	assert.False(t, IsValidStage("S5_PORTFOLIO"))
}

func TestLeaderboard(t *testing.T) {
	lb := Leaderboard{Stocks: []RankedStock{{Code: "A", Rank: 1}, {Code: "B", Rank: 2}, {Code: "C", Rank: 3}}}

	assert.Len(t, lb.Top(2), 2)
	assert.Len(t, lb.Top(0), 3)

	row, ok := lb.Find("B")
	require.True(t, ok)
	assert.True(t, row.IsTopRanked(2))
	assert.False(t, row.IsTopRanked(1))

	_, ok = lb.Find("Z")
	assert.False(t, ok)
}

func TestUniverse(t *testing.T) {
	u := Universe{Symbols: []Symbol{{Code: "005930", Name: "삼성전자"}, {Code: "000660"}}}

	assert.True(t, u.Contains("000660"))
	assert.False(t, u.Contains("999999"))
	assert.Equal(t, []string{"005930", "000660"}, u.Codes())
	assert.Equal(t, 2, u.Count())
}
