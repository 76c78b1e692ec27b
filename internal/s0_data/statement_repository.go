package s0_data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// StatementRepository stores annual report rows in data.financial_statements
// ⭐ SSOT: 재무제표 저장소는 여기서만
type StatementRepository struct {
	pool *pgxpool.Pool
}

// NewStatementRepository creates a new statement repository
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepository {
	return &StatementRepository{pool: pool}
}

// FetchStatements returns the stored table of symbol for year
func (r *StatementRepository) FetchStatements(ctx context.Context, symbol contracts.Symbol, year int) (contracts.StatementTable, error) {
	query := `
		SELECT account_nm, fs_div, thstrm_amount, frmtrm_amount
		FROM data.financial_statements
		WHERE stock_code = $1 AND bsns_year = $2
		ORDER BY fs_div, account_nm
	`

	rows, err := r.pool.Query(ctx, query, symbol.Code, year)
	if err != nil {
		return contracts.StatementTable{}, fmt.Errorf("query statements %s: %w", symbol.Code, err)
	}
	defer rows.Close()

	table := contracts.StatementTable{Code: symbol.Code, Year: year}
	for rows.Next() {
		var row contracts.StatementRow
		var fsDiv string
		if err := rows.Scan(&row.AccountName, &fsDiv, &row.CurrentAmount, &row.PriorAmount); err != nil {
			return contracts.StatementTable{}, fmt.Errorf("scan statement: %w", err)
		}
		row.Scope = contracts.ParseScope(fsDiv)
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return contracts.StatementTable{}, err
	}

	if table.IsEmpty() {
		return table, fmt.Errorf("statements %s/%d: %w", symbol.Code, year, contracts.ErrNotFound)
	}
	return table, nil
}

// SaveStatements replaces the stored rows of one (code, year) table
func (r *StatementRepository) SaveStatements(ctx context.Context, table contracts.StatementTable) error {
	if table.IsEmpty() {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM data.financial_statements WHERE stock_code = $1 AND bsns_year = $2`,
		table.Code, table.Year,
	); err != nil {
		return fmt.Errorf("delete statements: %w", err)
	}

	query := `
		INSERT INTO data.financial_statements (stock_code, bsns_year, account_nm, fs_div, thstrm_amount, frmtrm_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (stock_code, bsns_year, account_nm, fs_div) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, row := range table.Rows {
		batch.Queue(query, table.Code, table.Year, row.AccountName, row.Scope.DARTCode(),
			row.CurrentAmount, row.PriorAmount)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert statements %s/%d: %w", table.Code, table.Year, err)
	}

	return tx.Commit(ctx)
}
