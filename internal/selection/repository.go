package selection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// Repository handles leaderboard persistence
// ⭐ SSOT: 랭킹 결과 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new selection repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveLeaderboard replaces the stored leaderboard of board.AsOf's date
func (r *Repository) SaveLeaderboard(ctx context.Context, board contracts.Leaderboard) error {
	date := board.AsOf.Truncate(24 * time.Hour)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM selection.leaderboard WHERE run_date = $1", date)
	if err != nil {
		return fmt.Errorf("failed to delete old results: %w", err)
	}

	query := `
		INSERT INTO selection.leaderboard (
			run_date, stock_code, corp_name, rank, total_score,
			trend_score, fundamental_score, rs_score, pattern_score,
			trend_passed, fundamental_passed, rs_passed,
			recommendation, warnings
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	for _, s := range board.Stocks {
		warnings, err := json.Marshal(s.Bundle.Warnings)
		if err != nil {
			return fmt.Errorf("failed to marshal warnings: %w", err)
		}

		b := s.Bundle
		_, err = tx.Exec(ctx, query,
			date, s.Code, s.Name, s.Rank, b.Total,
			b.Trend, b.Fundamental, b.RS, b.Pattern,
			b.Filters.Trend, b.Filters.Fundamental, b.Filters.RS,
			string(b.Recommendation), warnings,
		)
		if err != nil {
			return fmt.Errorf("failed to insert leaderboard row %s: %w", s.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetLeaderboard retrieves the leaderboard stored for a date.
// limit <= 0 returns every row.
func (r *Repository) GetLeaderboard(ctx context.Context, date time.Time, limit int) (contracts.Leaderboard, error) {
	date = date.Truncate(24 * time.Hour)
	query := `
		SELECT
			stock_code, corp_name, rank, total_score,
			trend_score, fundamental_score, rs_score, pattern_score,
			trend_passed, fundamental_passed, rs_passed,
			recommendation, warnings
		FROM selection.leaderboard
		WHERE run_date = $1
		ORDER BY rank ASC
	`
	args := []interface{}{date}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return contracts.Leaderboard{}, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	board := contracts.Leaderboard{AsOf: date, Stocks: make([]contracts.RankedStock, 0)}

	for rows.Next() {
		var s contracts.RankedStock
		var rec string
		var warnings []byte
		b := &s.Bundle
		err := rows.Scan(
			&s.Code, &s.Name, &s.Rank, &b.Total,
			&b.Trend, &b.Fundamental, &b.RS, &b.Pattern,
			&b.Filters.Trend, &b.Filters.Fundamental, &b.Filters.RS,
			&rec, &warnings,
		)
		if err != nil {
			return contracts.Leaderboard{}, fmt.Errorf("failed to scan row: %w", err)
		}
		b.Recommendation = contracts.Recommendation(rec)
		if len(warnings) > 0 {
			if err := json.Unmarshal(warnings, &b.Warnings); err != nil {
				return contracts.Leaderboard{}, fmt.Errorf("failed to unmarshal warnings: %w", err)
			}
		}

		board.Stocks = append(board.Stocks, s)
	}

	if err := rows.Err(); err != nil {
		return contracts.Leaderboard{}, fmt.Errorf("error iterating rows: %w", err)
	}

	if len(board.Stocks) == 0 {
		return contracts.Leaderboard{}, fmt.Errorf("no leaderboard for %s: %w", date.Format("2006-01-02"), contracts.ErrNotFound)
	}

	return board, nil
}

// LatestRunDate returns the most recent stored run date
func (r *Repository) LatestRunDate(ctx context.Context) (time.Time, error) {
	var date *time.Time
	err := r.pool.QueryRow(ctx, "SELECT MAX(run_date) FROM selection.leaderboard").Scan(&date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest run date: %w", err)
	}
	if date == nil {
		return time.Time{}, contracts.ErrNotFound
	}
	return *date, nil
}
