package s0_data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Store persists fetched inputs
type Store interface {
	SaveSeries(ctx context.Context, series contracts.PriceSeries) error
	SaveStatements(ctx context.Context, table contracts.StatementTable) error
	SaveCompany(ctx context.Context, company contracts.Company) error
}

// RepositoryProvider serves screening inputs from Postgres
// ⭐ SSOT: DB 기반 DataProvider
type RepositoryProvider struct {
	*PriceRepository
	*StatementRepository
	*CompanyRepository
}

// NewRepositoryProvider creates a provider over the data schema
func NewRepositoryProvider(pool *pgxpool.Pool) *RepositoryProvider {
	return &RepositoryProvider{
		PriceRepository:     NewPriceRepository(pool),
		StatementRepository: NewStatementRepository(pool),
		CompanyRepository:   NewCompanyRepository(pool),
	}
}

// RemoteProvider serves screening inputs from the external sources.
// Company names are tried in the given order; the first non-empty name wins.
// ⭐ SSOT: 외부 API 기반 DataProvider (Naver 가격 + DART 재무제표)
type RemoteProvider struct {
	prices     contracts.PriceProvider
	statements contracts.StatementProvider
	companies  []contracts.CompanyProvider
	logger     *logger.Logger
}

// NewRemoteProvider creates a provider over external clients
func NewRemoteProvider(
	prices contracts.PriceProvider,
	statements contracts.StatementProvider,
	log *logger.Logger,
	companies ...contracts.CompanyProvider,
) *RemoteProvider {
	return &RemoteProvider{
		prices:     prices,
		statements: statements,
		companies:  companies,
		logger:     log.WithField("module", "remote_provider"),
	}
}

// FetchPrices implements contracts.PriceProvider
func (p *RemoteProvider) FetchPrices(ctx context.Context, code string, from, to time.Time) (contracts.PriceSeries, error) {
	return p.prices.FetchPrices(ctx, code, from, to)
}

// FetchStatements implements contracts.StatementProvider
func (p *RemoteProvider) FetchStatements(ctx context.Context, symbol contracts.Symbol, year int) (contracts.StatementTable, error) {
	return p.statements.FetchStatements(ctx, symbol, year)
}

// FetchCompany implements contracts.CompanyProvider
func (p *RemoteProvider) FetchCompany(ctx context.Context, code string) (contracts.Company, error) {
	lastErr := fmt.Errorf("company %s: %w", code, contracts.ErrNotFound)
	for _, source := range p.companies {
		company, err := source.FetchCompany(ctx, code)
		if err == nil && company.Name != "" {
			return company, nil
		}
		if ctx.Err() != nil {
			return contracts.Company{Code: code}, ctx.Err()
		}
		if err != nil {
			lastErr = err
			p.logger.WithError(err).WithField("stock_code", code).Debug("Company source failed")
		}
	}
	return contracts.Company{Code: code}, lastErr
}

// FallbackProvider reads from primary and falls back to secondary when the
// primary has no data. Other primary errors are returned as is.
type FallbackProvider struct {
	primary   contracts.DataProvider
	secondary contracts.DataProvider
}

// NewFallbackProvider chains two providers
func NewFallbackProvider(primary, secondary contracts.DataProvider) *FallbackProvider {
	return &FallbackProvider{primary: primary, secondary: secondary}
}

// FetchPrices implements contracts.PriceProvider
func (p *FallbackProvider) FetchPrices(ctx context.Context, code string, from, to time.Time) (contracts.PriceSeries, error) {
	series, err := p.primary.FetchPrices(ctx, code, from, to)
	if errors.Is(err, contracts.ErrNotFound) {
		return p.secondary.FetchPrices(ctx, code, from, to)
	}
	return series, err
}

// FetchStatements implements contracts.StatementProvider
func (p *FallbackProvider) FetchStatements(ctx context.Context, symbol contracts.Symbol, year int) (contracts.StatementTable, error) {
	table, err := p.primary.FetchStatements(ctx, symbol, year)
	if errors.Is(err, contracts.ErrNotFound) {
		return p.secondary.FetchStatements(ctx, symbol, year)
	}
	return table, err
}

// FetchCompany implements contracts.CompanyProvider
func (p *FallbackProvider) FetchCompany(ctx context.Context, code string) (contracts.Company, error) {
	company, err := p.primary.FetchCompany(ctx, code)
	if errors.Is(err, contracts.ErrNotFound) {
		return p.secondary.FetchCompany(ctx, code)
	}
	return company, err
}
