package brain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/s2_signals"
	"github.com/wonny/sepa/backend/internal/selection"
	"github.com/wonny/sepa/backend/pkg/logger"
)

var asOf = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

// growing returns n daily bars compounding at rate, ending on asOf
func growing(code string, n int, rate float64) contracts.PriceSeries {
	s := contracts.PriceSeries{Code: code}
	price := 10000.0
	start := asOf.AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, contracts.Bar{
			Date: start.AddDate(0, 0, i), Open: price, High: price * 1.01,
			Low: price * 0.99, Close: price, Volume: 100000,
		})
		price *= 1 + rate
	}
	return s
}

func statements(code string, sales string) contracts.StatementTable {
	row := func(name, cur, prior string) contracts.StatementRow {
		return contracts.StatementRow{AccountName: name, Scope: contracts.ScopeConsolidated, CurrentAmount: cur, PriorAmount: prior}
	}
	return contracts.StatementTable{Code: code, Year: 2024, Rows: []contracts.StatementRow{
		row("매출액", sales, "1,000"),
		row("영업이익", "150", "100"),
		row("당기순이익", "200", "150"),
		row("자본총계", "1,000", "900"),
		row("부채총계", "500", "500"),
	}}
}

type fakeProvider struct {
	series map[string]contracts.PriceSeries
	tables map[string]contracts.StatementTable
	names  map[string]string
	fail   map[string]error
}

func (f *fakeProvider) FetchPrices(ctx context.Context, code string, _, _ time.Time) (contracts.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return contracts.PriceSeries{}, err
	}
	if err, ok := f.fail[code]; ok {
		return contracts.PriceSeries{}, err
	}
	s, ok := f.series[code]
	if !ok {
		return contracts.PriceSeries{}, fmt.Errorf("prices %s: %w", code, contracts.ErrNotFound)
	}
	return s, nil
}

func (f *fakeProvider) FetchStatements(_ context.Context, symbol contracts.Symbol, _ int) (contracts.StatementTable, error) {
	t, ok := f.tables[symbol.Code]
	if !ok {
		return contracts.StatementTable{}, fmt.Errorf("statements %s: %w", symbol.Code, contracts.ErrNotFound)
	}
	return t, nil
}

func (f *fakeProvider) FetchCompany(_ context.Context, code string) (contracts.Company, error) {
	name, ok := f.names[code]
	if !ok {
		return contracts.Company{Code: code}, contracts.ErrNotFound
	}
	return contracts.Company{Code: code, Name: name}, nil
}

func newOrchestrator(universe contracts.Universe, p contracts.DataProvider) *Orchestrator {
	log := logger.NewNop()
	return NewOrchestrator(universe, p, s2_signals.NewEngine(s2_signals.DefaultConfig(), log), selection.NewRanker(log), log)
}

func symbols(codes ...string) contracts.Universe {
	var u contracts.Universe
	for _, c := range codes {
		u.Symbols = append(u.Symbols, contracts.Symbol{Code: c, Name: "설정 " + c})
	}
	return u
}

func runConfig(workers int) RunConfig {
	return RunConfig{
		AsOf:         asOf,
		HistoryStart: asOf.AddDate(-2, 0, 0),
		Year:         2024,
		Workers:      workers,
	}
}

func TestRun_RanksAndSkips(t *testing.T) {
	p := &fakeProvider{
		series: map[string]contracts.PriceSeries{
			"005930": growing("005930", 400, 0.003),
			"000660": growing("000660", 400, 0.001),
			"042700": growing("042700", 400, 0.002),
		},
		tables: map[string]contracts.StatementTable{
			"005930": statements("005930", "1,300"),
			"000660": statements("000660", "1,100"),
			"403870": statements("403870", "1,200"),
		},
		names: map[string]string{"005930": "삼성전자"},
	}
	o := newOrchestrator(symbols("005930", "000660", "042700", "403870"), p)

	result, err := o.Run(context.Background(), runConfig(2))
	require.NoError(t, err)

	require.Equal(t, 2, result.Leaderboard.Count())
	assert.Equal(t, []string{"042700", "403870"}, result.Skipped)
	assert.Len(t, result.Details, 4)

	top := result.Leaderboard.Stocks[0]
	assert.Equal(t, 1, top.Rank)
	assert.GreaterOrEqual(t, top.Bundle.Total, result.Leaderboard.Stocks[1].Bundle.Total)

	row, ok := result.Leaderboard.Find("005930")
	require.True(t, ok)
	assert.Equal(t, "삼성전자", row.Name)

	row, ok = result.Leaderboard.Find("000660")
	require.True(t, ok)
	assert.Equal(t, "설정 000660", row.Name)

	skipped, ok := result.Detail("042700")
	require.True(t, ok)
	assert.True(t, skipped.HasSeries)
	assert.False(t, skipped.HasStatements)
	assert.Zero(t, skipped.Evaluation.Bundle.Fundamental)
	assert.Equal(t, contracts.WarnMissingData, skipped.Evaluation.Bundle.Warnings[0].Code)
}

func TestRun_ProviderFailureDegrades(t *testing.T) {
	p := &fakeProvider{
		series: map[string]contracts.PriceSeries{"005930": growing("005930", 300, 0.002)},
		tables: map[string]contracts.StatementTable{
			"005930": statements("005930", "1,300"),
			"000660": statements("000660", "1,300"),
		},
		fail: map[string]error{"000660": errors.New("naver: 503")},
	}
	o := newOrchestrator(symbols("005930", "000660"), p)

	result, err := o.Run(context.Background(), runConfig(4))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Leaderboard.Count())
	assert.Equal(t, []string{"000660"}, result.Skipped)

	d, ok := result.Detail("000660")
	require.True(t, ok)
	assert.Zero(t, d.Evaluation.Bundle.Trend)
	assert.Zero(t, d.Evaluation.Bundle.RS)
	assert.Contains(t, d.Evaluation.Bundle.Warnings[0].Message, "naver: 503")
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	p := &fakeProvider{
		series: map[string]contracts.PriceSeries{},
		tables: map[string]contracts.StatementTable{},
	}
	var codes []string
	for i := 0; i < 12; i++ {
		code := fmt.Sprintf("%06d", 100000+i)
		codes = append(codes, code)
		p.series[code] = growing(code, 320, 0.0005*float64(i%4))
		p.tables[code] = statements(code, "1,200")
	}

	single, err := newOrchestrator(symbols(codes...), p).Run(context.Background(), runConfig(1))
	require.NoError(t, err)
	parallel, err := newOrchestrator(symbols(codes...), p).Run(context.Background(), runConfig(8))
	require.NoError(t, err)

	assert.Equal(t, single.Leaderboard.Stocks, parallel.Leaderboard.Stocks)
}

func TestRun_PlaceholderName(t *testing.T) {
	p := &fakeProvider{
		series: map[string]contracts.PriceSeries{"005930": growing("005930", 260, 0.001)},
		tables: map[string]contracts.StatementTable{"005930": statements("005930", "1,100")},
	}
	universe := contracts.Universe{Symbols: []contracts.Symbol{{Code: "005930"}}}

	result, err := newOrchestrator(universe, p).Run(context.Background(), runConfig(1))
	require.NoError(t, err)
	require.Equal(t, 1, result.Leaderboard.Count())
	assert.Equal(t, "기업 005930", result.Leaderboard.Stocks[0].Name)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOrchestrator(symbols("005930"), &fakeProvider{})
	_, err := o.Run(ctx, runConfig(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_EmptyUniverse(t *testing.T) {
	result, err := newOrchestrator(contracts.Universe{}, &fakeProvider{}).Run(context.Background(), runConfig(0))
	require.NoError(t, err)
	assert.Zero(t, result.Leaderboard.Count())
	assert.NotEmpty(t, result.RunID)
}

func TestGenerateRunID(t *testing.T) {
	a, b := GenerateRunID(), GenerateRunID()
	assert.Regexp(t, `^run_\d{8}_\d{6}_[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}
