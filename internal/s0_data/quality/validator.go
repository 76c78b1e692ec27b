package quality

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sepa/backend/internal/contracts"
)

// QualityGate measures how much of the universe the stored data can score
type QualityGate struct {
	db     *pgxpool.Pool
	config Config
}

// Config holds quality gate thresholds
type Config struct {
	MinHistoryBars       int     `yaml:"min_history_bars"`       // 200 (MA200)
	FreshnessDays        int     `yaml:"freshness_days"`         // 7 (주말/휴장 포함)
	MinPriceCoverage     float64 `yaml:"min_price_coverage"`     // 1.0 (100%)
	MinFinancialCoverage float64 `yaml:"min_financial_coverage"` // 0.80
}

// DefaultConfig returns the thresholds used by the collect command
func DefaultConfig() Config {
	return Config{
		MinHistoryBars:       200,
		FreshnessDays:        7,
		MinPriceCoverage:     1.0,
		MinFinancialCoverage: 0.80,
	}
}

// StockCoverage is what the store holds for one stock
type StockCoverage struct {
	Code             string     `json:"code"`
	Bars             int        `json:"bars"`
	LatestDate       *time.Time `json:"latest_date,omitempty"`
	StatementRows    int        `json:"statement_rows"`
	RequiredAccounts int        `json:"required_accounts"` // 연결 기준 필수 계정 수
	HasName          bool       `json:"has_name"`
}

// Snapshot is the coverage report of one universe
type Snapshot struct {
	Date         time.Time          `json:"date"`
	Year         int                `json:"year"`
	TotalStocks  int                `json:"total_stocks"`
	ValidStocks  int                `json:"valid_stocks"`
	Coverage     map[string]float64 `json:"coverage"`
	QualityScore float64            `json:"quality_score"`
	Passed       bool               `json:"passed"`
	Stocks       []StockCoverage    `json:"stocks"`
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(db *pgxpool.Pool, config Config) *QualityGate {
	return &QualityGate{
		db:     db,
		config: config,
	}
}

// Check measures stored coverage of the universe as of date
// ⭐ SSOT: S0 품질 검증
func (g *QualityGate) Check(ctx context.Context, universe contracts.Universe, date time.Time, year int) (*Snapshot, error) {
	stocks, err := g.loadCoverage(ctx, universe.Codes(), date, year)
	if err != nil {
		return nil, fmt.Errorf("load coverage: %w", err)
	}
	return g.Evaluate(stocks, date, year), nil
}

func (g *QualityGate) loadCoverage(ctx context.Context, codes []string, date time.Time, year int) ([]StockCoverage, error) {
	required := make([]string, 0, len(contracts.RequiredAccounts()))
	for _, a := range contracts.RequiredAccounts() {
		required = append(required, a.DARTLabel())
	}

	query := `
		SELECT
			c.code,
			COALESCE(p.bars, 0),
			p.latest,
			COALESCE(f.stmt_rows, 0),
			COALESCE(f.required, 0),
			co.corp_name IS NOT NULL
		FROM unnest($1::text[]) WITH ORDINALITY AS c(code, ord)
		LEFT JOIN (
			SELECT stock_code, COUNT(*) AS bars, MAX(trade_date) AS latest
			FROM data.daily_prices
			WHERE stock_code = ANY($1) AND trade_date <= $2
			GROUP BY stock_code
		) p ON p.stock_code = c.code
		LEFT JOIN (
			SELECT stock_code,
				COUNT(*) AS stmt_rows,
				COUNT(DISTINCT account_nm) FILTER (WHERE fs_div = 'CFS' AND account_nm = ANY($4)) AS required
			FROM data.financial_statements
			WHERE stock_code = ANY($1) AND bsns_year = $3
			GROUP BY stock_code
		) f ON f.stock_code = c.code
		LEFT JOIN data.companies co ON co.stock_code = c.code
		ORDER BY c.ord
	`

	rows, err := g.db.Query(ctx, query, codes, date, year, required)
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}
	defer rows.Close()

	var stocks []StockCoverage
	for rows.Next() {
		var s StockCoverage
		if err := rows.Scan(&s.Code, &s.Bars, &s.LatestDate, &s.StatementRows, &s.RequiredAccounts, &s.HasName); err != nil {
			return nil, fmt.Errorf("scan coverage: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// Evaluate turns per-stock coverage into a snapshot
func (g *QualityGate) Evaluate(stocks []StockCoverage, date time.Time, year int) *Snapshot {
	snapshot := &Snapshot{
		Date:        date,
		Year:        year,
		TotalStocks: len(stocks),
		Coverage:    make(map[string]float64),
		Stocks:      stocks,
	}
	if len(stocks) == 0 {
		return snapshot
	}

	var fresh, history, financial, named int
	for _, s := range stocks {
		priceOK := g.isFresh(s, date)
		historyOK := s.Bars >= g.config.MinHistoryBars
		financialOK := s.RequiredAccounts >= len(contracts.RequiredAccounts())

		if priceOK {
			fresh++
		}
		if historyOK {
			history++
		}
		if financialOK {
			financial++
		}
		if s.HasName {
			named++
		}
		if priceOK && historyOK && financialOK {
			snapshot.ValidStocks++
		}
	}

	total := float64(len(stocks))
	snapshot.Coverage["price"] = float64(fresh) / total
	snapshot.Coverage["history"] = float64(history) / total
	snapshot.Coverage["fundamentals"] = float64(financial) / total
	snapshot.Coverage["company"] = float64(named) / total

	snapshot.QualityScore = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = snapshot.Coverage["price"] >= g.config.MinPriceCoverage &&
		snapshot.Coverage["fundamentals"] >= g.config.MinFinancialCoverage

	return snapshot
}

func (g *QualityGate) isFresh(s StockCoverage, date time.Time) bool {
	if s.LatestDate == nil {
		return false
	}
	return date.Sub(*s.LatestDate) <= time.Duration(g.config.FreshnessDays)*24*time.Hour
}

// calculateScore calculates overall quality score using weighted average
func (g *QualityGate) calculateScore(coverage map[string]float64) float64 {
	// 가중치 (합계 = 1.0)
	weights := map[string]float64{
		"price":        0.35, // 최신 가격 필수
		"history":      0.20, // MA200 계산용 이력
		"fundamentals": 0.35, // 재무제표
		"company":      0.10, // 종목명
	}

	score := 0.0
	for key, weight := range weights {
		if cov, exists := coverage[key]; exists {
			score += cov * weight
		}
	}

	return score
}
