package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/s0_data"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Collector copies remote screening inputs of the universe into the store
// ⭐ SSOT: 데이터 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	source contracts.DataProvider
	store  s0_data.Store
	logger *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent workers
	From    time.Time
	To      time.Time
	Year    int // 사업보고서 연도
}

// NewCollector creates a new Collector instance
func NewCollector(source contracts.DataProvider, store s0_data.Store, log *logger.Logger) *Collector {
	return &Collector{
		source: source,
		store:  store,
		logger: log.WithField("module", "collector"),
	}
}

// FetchResult represents the result of collecting one stock.
// Missing data is recorded per kind; Error is set only when storing failed
// or the run was cancelled.
type FetchResult struct {
	StockCode      string   `json:"stock_code"`
	Name           string   `json:"name,omitempty"`
	PriceCount     int      `json:"price_count"`
	StatementCount int      `json:"statement_count"`
	Missing        []string `json:"missing,omitempty"`
	Error          error    `json:"-"`
}

// OK reports whether every input was fetched and stored
func (r FetchResult) OK() bool {
	return r.Error == nil && len(r.Missing) == 0
}

// Collect fetches and stores prices, statements and names for every symbol.
// Results keep universe order.
func (c *Collector) Collect(ctx context.Context, universe contracts.Universe, cfg Config) ([]FetchResult, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"stock_count": universe.Count(),
		"from":        cfg.From.Format("2006-01-02"),
		"to":          cfg.To.Format("2006-01-02"),
		"year":        cfg.Year,
		"workers":     cfg.Workers,
	}).Info("Starting collection")

	type job struct {
		index  int
		symbol contracts.Symbol
	}

	results := make([]FetchResult, universe.Count())
	jobCh := make(chan job, universe.Count())

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobCh {
				results[j.index] = c.collectOne(ctx, workerID, j.symbol, cfg)
			}
		}(i)
	}

	for i, s := range universe.Symbols {
		jobCh <- job{index: i, symbol: s}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("collection cancelled: %w", err)
	}

	successCount, failCount := 0, 0
	for _, r := range results {
		if r.OK() {
			successCount++
		} else {
			failCount++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  failCount,
		"total":   len(results),
	}).Info("Collection completed")

	return results, nil
}

func (c *Collector) collectOne(ctx context.Context, workerID int, symbol contracts.Symbol, cfg Config) FetchResult {
	result := FetchResult{StockCode: symbol.Code, Name: symbol.Name}
	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	log := c.logger.WithFields(map[string]interface{}{
		"worker":     workerID,
		"stock_code": symbol.Code,
	})

	series, err := c.source.FetchPrices(ctx, symbol.Code, cfg.From, cfg.To)
	switch {
	case err != nil:
		log.WithError(err).Warn("Failed to fetch prices")
		result.Missing = append(result.Missing, "prices")
	default:
		if err := c.store.SaveSeries(ctx, series); err != nil {
			result.Error = errors.Join(result.Error, err)
		} else {
			result.PriceCount = series.Len()
		}
	}

	table, err := c.source.FetchStatements(ctx, symbol, cfg.Year)
	switch {
	case err != nil:
		log.WithError(err).Warn("Failed to fetch statements")
		result.Missing = append(result.Missing, "statements")
	default:
		if err := c.store.SaveStatements(ctx, table); err != nil {
			result.Error = errors.Join(result.Error, err)
		} else {
			result.StatementCount = len(table.Rows)
		}
	}

	company, err := c.source.FetchCompany(ctx, symbol.Code)
	switch {
	case err != nil || company.Name == "":
		log.Debug("Company name not found")
		result.Missing = append(result.Missing, "company")
	default:
		result.Name = company.Name
		if err := c.store.SaveCompany(ctx, company); err != nil {
			result.Error = errors.Join(result.Error, err)
		}
	}

	if result.Error != nil {
		log.WithError(result.Error).Error("Failed to store collected data")
	} else {
		log.WithFields(map[string]interface{}{
			"prices":     result.PriceCount,
			"statements": result.StatementCount,
		}).Debug("Collected")
	}
	return result
}
