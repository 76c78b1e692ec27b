package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/sepa/backend/internal/brain"
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Runner executes a screening run
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// Publisher receives every finished run (the API result store)
type Publisher interface {
	Set(ctx context.Context, result *brain.RunResult)
}

// LeaderboardSaver persists a leaderboard
type LeaderboardSaver interface {
	SaveLeaderboard(ctx context.Context, board contracts.Leaderboard) error
}

// ScreenJob re-runs the SEPA screen after the market closes
// ⭐ SSOT: 스크리닝 스케줄은 이 Job에서만
type ScreenJob struct {
	runner    Runner
	runConfig func(asOf time.Time) brain.RunConfig
	schedule  string
	publisher Publisher
	saver     LeaderboardSaver
	now       func() time.Time
	logger    *logger.Logger
}

// NewScreenJob creates a new screen job. publisher and saver may be nil.
func NewScreenJob(
	runner Runner,
	runConfig func(asOf time.Time) brain.RunConfig,
	schedule string,
	publisher Publisher,
	saver LeaderboardSaver,
	log *logger.Logger,
) *ScreenJob {
	return &ScreenJob{
		runner:    runner,
		runConfig: runConfig,
		schedule:  schedule,
		publisher: publisher,
		saver:     saver,
		now:       time.Now,
		logger:    log,
	}
}

// Name returns the job name
func (j *ScreenJob) Name() string {
	return "sepa_screen"
}

// Schedule returns the cron schedule (평일 장 마감 후)
func (j *ScreenJob) Schedule() string {
	return j.schedule
}

// Run executes the screening run and publishes the result
func (j *ScreenJob) Run(ctx context.Context) error {
	asOf := j.now()
	j.logger.WithField("as_of", asOf.Format("2006-01-02")).Info("Starting scheduled screening")

	result, err := j.runner.Run(ctx, j.runConfig(asOf))
	if err != nil {
		return fmt.Errorf("screening run: %w", err)
	}

	if j.publisher != nil {
		j.publisher.Set(ctx, result)
	}

	if j.saver != nil {
		if err := j.saver.SaveLeaderboard(ctx, result.Leaderboard); err != nil {
			return fmt.Errorf("save leaderboard: %w", err)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  result.RunID,
		"ranked":  result.Leaderboard.Count(),
		"skipped": len(result.Skipped),
	}).Info("Scheduled screening completed")

	return nil
}
