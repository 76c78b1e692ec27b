package s0_data

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// CompanyRepository stores display names in data.companies
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// FetchCompany returns the stored name of code
func (r *CompanyRepository) FetchCompany(ctx context.Context, code string) (contracts.Company, error) {
	company := contracts.Company{Code: code}
	err := r.pool.QueryRow(ctx,
		`SELECT corp_name FROM data.companies WHERE stock_code = $1`, code,
	).Scan(&company.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return company, fmt.Errorf("company %s: %w", code, contracts.ErrNotFound)
	}
	if err != nil {
		return company, fmt.Errorf("query company %s: %w", code, err)
	}
	return company, nil
}

// SaveCompany upserts one company name
func (r *CompanyRepository) SaveCompany(ctx context.Context, company contracts.Company) error {
	if company.Name == "" {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO data.companies (stock_code, corp_name)
		VALUES ($1, $2)
		ON CONFLICT (stock_code) DO UPDATE SET
			corp_name = EXCLUDED.corp_name,
			updated_at = NOW()
	`, company.Code, company.Name)
	if err != nil {
		return fmt.Errorf("save company %s: %w", company.Code, err)
	}
	return nil
}
