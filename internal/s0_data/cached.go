package s0_data

import (
	"context"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
	"github.com/wonny/sepa/backend/pkg/redis"
)

// CachedProvider memoizes another provider in Redis and optionally writes
// fresh results through to a Store. Cache failures are logged and never fail
// a fetch.
// ⭐ SSOT: 다운로드한 재무제표/가격 캐시는 여기서만
type CachedProvider struct {
	inner  contracts.DataProvider
	cache  *redis.Cache
	store  Store
	logger *logger.Logger

	priceTTL time.Duration
}

// NewCachedProvider wraps inner. store may be nil.
func NewCachedProvider(inner contracts.DataProvider, cache *redis.Cache, store Store, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		inner:    inner,
		cache:    cache,
		store:    store,
		logger:   log.WithField("module", "cached_provider"),
		priceTTL: redis.TTLPrices,
	}
}

// WithPriceTTL overrides how long price series stay cached (<= 0 keeps the default)
func (p *CachedProvider) WithPriceTTL(ttl time.Duration) *CachedProvider {
	if ttl > 0 {
		p.priceTTL = ttl
	}
	return p
}

// FetchPrices implements contracts.PriceProvider
func (p *CachedProvider) FetchPrices(ctx context.Context, code string, from, to time.Time) (contracts.PriceSeries, error) {
	key := redis.PriceKey(code, from.Format("20060102")+"-"+to.Format("20060102"))

	var series contracts.PriceSeries
	if p.lookup(ctx, key, &series) && !series.IsEmpty() {
		return series, nil
	}

	series, err := p.inner.FetchPrices(ctx, code, from, to)
	if err != nil {
		return series, err
	}

	p.remember(ctx, key, series, p.priceTTL)
	if p.store != nil {
		if err := p.store.SaveSeries(ctx, series); err != nil {
			p.logger.WithError(err).WithField("stock_code", code).Warn("Failed to store prices")
		}
	}
	return series, nil
}

// FetchStatements implements contracts.StatementProvider
func (p *CachedProvider) FetchStatements(ctx context.Context, symbol contracts.Symbol, year int) (contracts.StatementTable, error) {
	key := redis.StatementKey(symbol.Code, year)

	var table contracts.StatementTable
	if p.lookup(ctx, key, &table) && !table.IsEmpty() {
		return table, nil
	}

	table, err := p.inner.FetchStatements(ctx, symbol, year)
	if err != nil {
		return table, err
	}

	p.remember(ctx, key, table, redis.TTLStatements)
	if p.store != nil {
		if err := p.store.SaveStatements(ctx, table); err != nil {
			p.logger.WithError(err).WithField("stock_code", symbol.Code).Warn("Failed to store statements")
		}
	}
	return table, nil
}

// FetchCompany implements contracts.CompanyProvider
func (p *CachedProvider) FetchCompany(ctx context.Context, code string) (contracts.Company, error) {
	key := redis.CompanyKey(code)

	var company contracts.Company
	if p.lookup(ctx, key, &company) && company.Name != "" {
		return company, nil
	}

	company, err := p.inner.FetchCompany(ctx, code)
	if err != nil {
		return company, err
	}

	p.remember(ctx, key, company, redis.TTLCompany)
	if p.store != nil {
		if err := p.store.SaveCompany(ctx, company); err != nil {
			p.logger.WithError(err).WithField("stock_code", code).Warn("Failed to store company")
		}
	}
	return company, nil
}

func (p *CachedProvider) lookup(ctx context.Context, key string, dest interface{}) bool {
	if p.cache == nil {
		return false
	}
	found, err := p.cache.Get(ctx, key, dest)
	if err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	return found
}

func (p *CachedProvider) remember(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, key, value, ttl); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}
