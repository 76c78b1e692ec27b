package s0_data

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
	"github.com/wonny/sepa/backend/pkg/redis"
)

// fakeProvider serves fixed data and counts calls
type fakeProvider struct {
	mu         sync.Mutex
	series     map[string]contracts.PriceSeries
	tables     map[string]contracts.StatementTable
	names      map[string]string
	err        error
	priceCalls int
}

func (f *fakeProvider) FetchPrices(_ context.Context, code string, _, _ time.Time) (contracts.PriceSeries, error) {
	f.mu.Lock()
	f.priceCalls++
	f.mu.Unlock()
	if f.err != nil {
		return contracts.PriceSeries{}, f.err
	}
	s, ok := f.series[code]
	if !ok {
		return contracts.PriceSeries{}, fmt.Errorf("prices %s: %w", code, contracts.ErrNotFound)
	}
	return s, nil
}

func (f *fakeProvider) FetchStatements(_ context.Context, symbol contracts.Symbol, _ int) (contracts.StatementTable, error) {
	if f.err != nil {
		return contracts.StatementTable{}, f.err
	}
	t, ok := f.tables[symbol.Code]
	if !ok {
		return contracts.StatementTable{}, fmt.Errorf("statements %s: %w", symbol.Code, contracts.ErrNotFound)
	}
	return t, nil
}

func (f *fakeProvider) FetchCompany(_ context.Context, code string) (contracts.Company, error) {
	if f.err != nil {
		return contracts.Company{}, f.err
	}
	name, ok := f.names[code]
	if !ok {
		return contracts.Company{Code: code}, fmt.Errorf("company %s: %w", code, contracts.ErrNotFound)
	}
	return contracts.Company{Code: code, Name: name}, nil
}

// memoryStore records what was saved
type memoryStore struct {
	mu        sync.Mutex
	series    map[string]contracts.PriceSeries
	tables    map[string]contracts.StatementTable
	companies map[string]contracts.Company
	err       error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		series:    make(map[string]contracts.PriceSeries),
		tables:    make(map[string]contracts.StatementTable),
		companies: make(map[string]contracts.Company),
	}
}

func (m *memoryStore) SaveSeries(_ context.Context, s contracts.PriceSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[s.Code] = s
	return m.err
}

func (m *memoryStore) SaveStatements(_ context.Context, t contracts.StatementTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[t.Code] = t
	return m.err
}

func (m *memoryStore) SaveCompany(_ context.Context, c contracts.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.Code] = c
	return m.err
}

func sampleProvider() *fakeProvider {
	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	return &fakeProvider{
		series: map[string]contracts.PriceSeries{
			"005930": {Code: "005930", Bars: []contracts.Bar{{Date: day, Open: 1, High: 1, Low: 1, Close: 1, Volume: 10}}},
		},
		tables: map[string]contracts.StatementTable{
			"005930": {Code: "005930", Year: 2024, Rows: []contracts.StatementRow{
				{AccountName: "매출액", Scope: contracts.ScopeConsolidated, CurrentAmount: "110", PriorAmount: "100"},
			}},
		},
		names: map[string]string{"005930": "삼성전자"},
	}
}

func TestRemoteProvider_FetchCompany(t *testing.T) {
	naver := &fakeProvider{names: map[string]string{}}
	dart := &fakeProvider{names: map[string]string{"000660": "SK하이닉스"}}
	p := NewRemoteProvider(naver, dart, logger.NewNop(), naver, dart)

	tests := []struct {
		name     string
		code     string
		wantName string
		wantErr  error
	}{
		{"falls back to second source", "000660", "SK하이닉스", nil},
		{"all sources miss", "999999", "", contracts.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company, err := p.FetchCompany(context.Background(), tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, company.Name)
		})
	}
}

func TestRemoteProvider_Delegates(t *testing.T) {
	src := sampleProvider()
	p := NewRemoteProvider(src, src, logger.NewNop(), src)

	series, err := p.FetchPrices(context.Background(), "005930", time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, series.Len())

	table, err := p.FetchStatements(context.Background(), contracts.Symbol{Code: "005930"}, 2024)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestFallbackProvider(t *testing.T) {
	primary := &fakeProvider{}
	secondary := sampleProvider()
	p := NewFallbackProvider(primary, secondary)
	ctx := context.Background()

	series, err := p.FetchPrices(ctx, "005930", time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "005930", series.Code)

	table, err := p.FetchStatements(ctx, contracts.Symbol{Code: "005930"}, 2024)
	require.NoError(t, err)
	assert.False(t, table.IsEmpty())

	company, err := p.FetchCompany(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, "삼성전자", company.Name)
}

func TestFallbackProvider_PrimaryFailure(t *testing.T) {
	boom := errors.New("connection refused")
	p := NewFallbackProvider(&fakeProvider{err: boom}, sampleProvider())

	_, err := p.FetchPrices(context.Background(), "005930", time.Time{}, time.Now())
	assert.ErrorIs(t, err, boom)
}

func disabledCache() *redis.Cache {
	return redis.NewCache(redis.NewFromRedis(nil), "sepa")
}

func TestCachedProvider_WriteThrough(t *testing.T) {
	inner := sampleProvider()
	store := newMemoryStore()
	p := NewCachedProvider(inner, disabledCache(), store, logger.NewNop())
	ctx := context.Background()

	_, err := p.FetchPrices(ctx, "005930", time.Time{}, time.Now())
	require.NoError(t, err)
	_, err = p.FetchStatements(ctx, contracts.Symbol{Code: "005930"}, 2024)
	require.NoError(t, err)
	_, err = p.FetchCompany(ctx, "005930")
	require.NoError(t, err)

	assert.Contains(t, store.series, "005930")
	assert.Equal(t, 2024, store.tables["005930"].Year)
	assert.Equal(t, "삼성전자", store.companies["005930"].Name)
}

func TestCachedProvider_DisabledCacheAlwaysHitsInner(t *testing.T) {
	inner := sampleProvider()
	p := NewCachedProvider(inner, disabledCache(), nil, logger.NewNop())

	for i := 0; i < 3; i++ {
		_, err := p.FetchPrices(context.Background(), "005930", time.Time{}, time.Now())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, inner.priceCalls)
}

func TestCachedProvider_StoreFailureIsNotFatal(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("disk full")
	p := NewCachedProvider(sampleProvider(), nil, store, logger.NewNop())

	table, err := p.FetchStatements(context.Background(), contracts.Symbol{Code: "005930"}, 2024)
	require.NoError(t, err)
	assert.False(t, table.IsEmpty())
}

func TestCachedProvider_PropagatesNotFound(t *testing.T) {
	p := NewCachedProvider(sampleProvider(), disabledCache(), newMemoryStore(), logger.NewNop())

	_, err := p.FetchStatements(context.Background(), contracts.Symbol{Code: "999999"}, 2024)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}
