package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

func cfs(name, cur, prior string) contracts.StatementRow {
	return contracts.StatementRow{AccountName: name, Scope: contracts.ScopeConsolidated, CurrentAmount: cur, PriorAmount: prior}
}

func sampleTable() contracts.StatementTable {
	return contracts.StatementTable{
		Code: "005930",
		Year: 2024,
		Rows: []contracts.StatementRow{
			{AccountName: "매출액", Scope: contracts.ScopeSeparate, CurrentAmount: "1", PriorAmount: "1"},
			cfs("매출액", "1,100", "1,000"),
			cfs("영업이익", "240", "200"),
			cfs("당기순이익", "120", "100"),
			cfs("자본총계", "1,000", "900"),
			cfs("부채총계", "500", "450"),
		},
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"302,231,360,000,000", 302231360000000, true},
		{" 1,234 ", 1234, true},
		{"-5,000", -5000, true},
		{"(1,500)", -1500, true},
		{"12.5", 12.5, true},
		{"", 0, false},
		{"-", 0, false},
		{"N/A", 0, false},
		{"1,2a3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestGrowthRate(t *testing.T) {
	assert.Equal(t, 10.0, GrowthRate(110, 100))
	assert.Equal(t, -10.0, GrowthRate(90, 100))
	assert.Equal(t, 0.0, GrowthRate(500, 0))
	assert.Equal(t, 0.0, GrowthRate(-500, 0))
	assert.Equal(t, 150.0, GrowthRate(50, -100))
}

func TestPercentileRank(t *testing.T) {
	assert.Equal(t, 50.0, PercentileRank(nil, 3))
	assert.Equal(t, 50.0, PercentileRank([]float64{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, 100.0, PercentileRank([]float64{1, 2}, 10))
	assert.Equal(t, 0.0, PercentileRank([]float64{5, 6}, 1))
}

func TestExtractor_Metrics(t *testing.T) {
	m, warnings := NewExtractor(sampleTable(), logger.NewNop()).Metrics()

	assert.Empty(t, warnings)
	assert.InDelta(t, 10.0, m.SalesGrowthPct, 1e-9)
	assert.InDelta(t, 20.0, m.OperatingIncomeGrowthPct, 1e-9)
	assert.InDelta(t, 12.0, m.ROEPct, 1e-9)
	assert.InDelta(t, 50.0, m.DebtRatioPct, 1e-9)
}

func TestExtractor_ReadsConsolidatedOnly(t *testing.T) {
	table := contracts.StatementTable{Rows: []contracts.StatementRow{
		{AccountName: "자본총계", Scope: contracts.ScopeSeparate, CurrentAmount: "1,000"},
	}}

	v, warnings := NewExtractor(table, logger.NewNop()).AccountValue(contracts.AccountTotalEquity)
	assert.Equal(t, 0.0, v)
	require.Len(t, warnings, 1)
	assert.Equal(t, contracts.WarnMissingData, warnings[0].Code)
}

func TestExtractor_EnglishLabels(t *testing.T) {
	table := contracts.StatementTable{Rows: []contracts.StatementRow{
		cfs("total equity", "2,000", ""),
	}}

	v, warnings := NewExtractor(table, logger.NewNop()).AccountValue(contracts.AccountTotalEquity)
	assert.Equal(t, 2000.0, v)
	assert.Empty(t, warnings)
}

func TestExtractor_EmptyTable(t *testing.T) {
	m, warnings := NewExtractor(contracts.StatementTable{}, logger.NewNop()).Metrics()

	assert.True(t, m.IsZero())
	require.Len(t, warnings, 1)
	assert.Equal(t, contracts.WarnMissingData, warnings[0].Code)
}

func TestExtractor_ZeroEquity(t *testing.T) {
	table := sampleTable()
	table.Rows[4] = cfs("자본총계", "0", "0")

	m, warnings := NewExtractor(table, logger.NewNop()).Metrics()

	assert.Equal(t, 0.0, m.ROEPct)
	assert.Equal(t, 0.0, m.DebtRatioPct, "capital 0 means debt ratio 0 regardless of debt")
	require.NotEmpty(t, warnings)
	assert.Equal(t, contracts.WarnComputationGuard, warnings[len(warnings)-1].Code)
}

func TestExtractor_MalformedAmount(t *testing.T) {
	table := sampleTable()
	table.Rows[1] = cfs("매출액", "n/a", "1,000")
	table.Rows[2] = cfs("영업이익", "240", "-")

	m, warnings := NewExtractor(table, logger.NewNop()).Metrics()

	assert.Equal(t, 0.0, m.SalesGrowthPct)
	assert.Equal(t, 0.0, m.OperatingIncomeGrowthPct)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, contracts.WarnMalformedAmount, w.Code)
	}
}

func TestCheckCriteria(t *testing.T) {
	tests := []struct {
		name   string
		m      contracts.FundamentalMetrics
		passed int
	}{
		{"all pass", contracts.FundamentalMetrics{SalesGrowthPct: 5, OperatingIncomeGrowthPct: 10, ROEPct: 8, DebtRatioPct: 150}, 4},
		{"three of four", contracts.FundamentalMetrics{SalesGrowthPct: 20, OperatingIncomeGrowthPct: 30, ROEPct: 15, DebtRatioPct: 200}, 3},
		{"zero metrics", contracts.FundamentalMetrics{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.passed, CheckCriteria(tt.m, DefaultThresholds()).PassedCount())
		})
	}
}

func TestStatus(t *testing.T) {
	m := contracts.FundamentalMetrics{SalesGrowthPct: 7, OperatingIncomeGrowthPct: 4, ROEPct: 8, DebtRatioPct: 120}

	rows := Status(m, DefaultThresholds(), true)
	require.Len(t, rows, 4)
	assert.Equal(t, "≥ 5%", rows[0].Rule)
	assert.True(t, rows[0].Passed)
	assert.InDelta(t, 2.0, rows[0].Margin, 1e-9)
	assert.False(t, rows[1].Passed)
	assert.Equal(t, "≤ 150%", rows[3].Rule)
	assert.InDelta(t, 30.0, rows[3].Margin, 1e-9)

	for _, r := range Status(m, DefaultThresholds(), false) {
		assert.False(t, r.Passed)
	}
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(sampleTable()))

	partial := contracts.StatementTable{Rows: []contracts.StatementRow{cfs("매출액", "1", "1")}}
	assert.Len(t, Validate(partial), 4)

	assert.Len(t, Validate(contracts.StatementTable{}), 1)
}
