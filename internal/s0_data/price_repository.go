package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// PriceRepository stores daily bars in data.daily_prices
// ⭐ SSOT: 가격 데이터 저장소는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// FetchPrices returns the bars of code between from and to, oldest first.
// An empty range is reported as contracts.ErrNotFound.
func (r *PriceRepository) FetchPrices(ctx context.Context, code string, from, to time.Time) (contracts.PriceSeries, error) {
	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price, volume
		FROM data.daily_prices
		WHERE stock_code = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, code, from, to)
	if err != nil {
		return contracts.PriceSeries{}, fmt.Errorf("query prices %s: %w", code, err)
	}
	defer rows.Close()

	series := contracts.PriceSeries{Code: code}
	for rows.Next() {
		var b contracts.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return contracts.PriceSeries{}, fmt.Errorf("scan price: %w", err)
		}
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return contracts.PriceSeries{}, err
	}

	if series.IsEmpty() {
		return series, fmt.Errorf("prices %s: %w", code, contracts.ErrNotFound)
	}
	return series, nil
}

// LatestDate returns the most recent stored trade date of code
func (r *PriceRepository) LatestDate(ctx context.Context, code string) (time.Time, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT MAX(trade_date) FROM data.daily_prices WHERE stock_code = $1`, code,
	).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("query latest price date: %w", err)
	}
	if latest == nil {
		return time.Time{}, fmt.Errorf("prices %s: %w", code, contracts.ErrNotFound)
	}
	return *latest, nil
}

// SaveSeries upserts every bar of the series in one batch
func (r *PriceRepository) SaveSeries(ctx context.Context, series contracts.PriceSeries) error {
	if series.IsEmpty() {
		return nil
	}

	query := `
		INSERT INTO data.daily_prices (stock_code, trade_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, b := range series.Bars {
		batch.Queue(query, series.Code, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save prices %s: %w", series.Code, err)
	}
	return nil
}
