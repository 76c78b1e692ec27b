package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/s0_data/collector"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// DataCollectionJob refreshes stored prices and statements of the universe
// ⭐ SSOT: 데이터 수집 스케줄은 이 Job에서만
type DataCollectionJob struct {
	collector *collector.Collector
	universe  contracts.Universe
	schedule  string
	lookback  int // 갱신할 최근 일수
	yearFor   func(asOf time.Time) int
	workers   int
	logger    *logger.Logger
}

// NewDataCollectionJob creates a new data collection job
func NewDataCollectionJob(
	col *collector.Collector,
	universe contracts.Universe,
	schedule string,
	yearFor func(asOf time.Time) int,
	workers int,
	log *logger.Logger,
) *DataCollectionJob {
	return &DataCollectionJob{
		collector: col,
		universe:  universe,
		schedule:  schedule,
		lookback:  10,
		yearFor:   yearFor,
		workers:   workers,
		logger:    log,
	}
}

// Name returns the job name
func (j *DataCollectionJob) Name() string {
	return "data_collection"
}

// Schedule returns the cron schedule
func (j *DataCollectionJob) Schedule() string {
	return j.schedule
}

// Run executes the data collection. Stocks with missing data do not fail
// the job; a store failure does.
func (j *DataCollectionJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled data collection")

	to := time.Now()
	results, err := j.collector.Collect(ctx, j.universe, collector.Config{
		Workers: j.workers,
		From:    to.AddDate(0, 0, -j.lookback),
		To:      to,
		Year:    j.yearFor(to),
	})
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("store %s: %w", r.StockCode, r.Error)
		}
	}
	return nil
}
