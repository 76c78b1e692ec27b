package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/s2_signals"
	"github.com/wonny/sepa/backend/internal/selection"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Orchestrator runs one screening pass over the universe
// ⭐ SSOT: 스크리닝 파이프라인 조율은 여기서만 (S0 → S2 → S4)
type Orchestrator struct {
	universe contracts.Universe
	provider contracts.DataProvider
	engine   *s2_signals.Engine
	ranker   *selection.Ranker
	logger   *logger.Logger
}

// RunConfig holds configuration for a screening run
type RunConfig struct {
	RunID        string
	AsOf         time.Time
	HistoryStart time.Time // 가격 조회 시작일
	Year         int       // 사업보고서 연도
	Workers      int
}

// StockDetail is the per-symbol outcome of a run
type StockDetail struct {
	Symbol        contracts.Symbol      `json:"symbol"`
	Name          string                `json:"name"`
	HasSeries     bool                  `json:"has_series"`
	HasStatements bool                  `json:"has_statements"`
	Evaluation    s2_signals.Evaluation `json:"evaluation"`
	Series        contracts.PriceSeries `json:"-"`
}

// RunResult holds the results of a complete screening run
type RunResult struct {
	RunID       string                  `json:"run_id"`
	AsOf        time.Time               `json:"as_of"`
	Year        int                     `json:"year"`
	Leaderboard contracts.Leaderboard   `json:"leaderboard"`
	Details     map[string]*StockDetail `json:"details"`
	Skipped     []string                `json:"skipped,omitempty"` // 데이터 부족으로 랭킹 제외
	Duration    time.Duration           `json:"duration"`
}

// Detail returns the outcome of one stock code
func (r *RunResult) Detail(code string) (*StockDetail, bool) {
	d, ok := r.Details[code]
	return d, ok
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	universe contracts.Universe,
	provider contracts.DataProvider,
	engine *s2_signals.Engine,
	ranker *selection.Ranker,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		universe: universe,
		provider: provider,
		engine:   engine,
		ranker:   ranker,
		logger:   logger.WithField("module", "orchestrator"),
	}
}

// Universe returns the screened symbols
func (o *Orchestrator) Universe() contracts.Universe {
	return o.universe
}

// Run loads and scores every symbol, then ranks them.
// A symbol whose data cannot be loaded is scored on empty inputs and left out
// of the leaderboard. The run fails only when ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.RunID == "" {
		config.RunID = GenerateRunID()
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":  config.RunID,
		"as_of":   config.AsOf.Format("2006-01-02"),
		"year":    config.Year,
		"stocks":  o.universe.Count(),
		"workers": config.Workers,
	}).Info("Starting screening run")

	details := make([]*StockDetail, o.universe.Count())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i, symbol := range o.universe.Symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			details[i] = o.evaluate(gctx, symbol, config)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("screening cancelled: %w", err)
	}

	result := &RunResult{
		RunID:   config.RunID,
		AsOf:    config.AsOf,
		Year:    config.Year,
		Details: make(map[string]*StockDetail, len(details)),
	}

	candidates := make([]selection.Candidate, 0, len(details))
	for _, d := range details {
		result.Details[d.Symbol.Code] = d
		candidates = append(candidates, selection.Candidate{
			Symbol:        d.Symbol,
			Name:          d.Name,
			HasSeries:     d.HasSeries,
			HasStatements: d.HasStatements,
			Bundle:        d.Evaluation.Bundle,
		})
		if !d.HasSeries || !d.HasStatements {
			result.Skipped = append(result.Skipped, d.Symbol.Code)
		}
	}

	result.Leaderboard = contracts.Leaderboard{
		AsOf:   config.AsOf,
		Stocks: o.ranker.Rank(candidates),
	}
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":   config.RunID,
		"ranked":   result.Leaderboard.Count(),
		"skipped":  len(result.Skipped),
		"duration": result.Duration.Seconds(),
	}).Info("Screening run completed")

	return result, nil
}

// evaluate loads the inputs of one symbol and scores them
func (o *Orchestrator) evaluate(ctx context.Context, symbol contracts.Symbol, config RunConfig) *StockDetail {
	log := o.logger.WithField("stock_code", symbol.Code)
	var warnings []contracts.Warning

	series, err := o.provider.FetchPrices(ctx, symbol.Code, config.HistoryStart, config.AsOf)
	if err != nil {
		log.WithError(err).Warn("Price data unavailable")
		warnings = append(warnings, missing("prices", err))
		series = contracts.PriceSeries{Code: symbol.Code}
	}

	table, err := o.provider.FetchStatements(ctx, symbol, config.Year)
	if err != nil {
		log.WithError(err).Warn("Statement data unavailable")
		warnings = append(warnings, missing("statements", err))
		table = contracts.StatementTable{Code: symbol.Code, Year: config.Year}
	}

	series = series.Until(config.AsOf)
	eval := o.engine.Analyze(s2_signals.Input{Series: series, Statements: table}, config.AsOf)
	eval.Bundle.Warnings = append(warnings, eval.Bundle.Warnings...)

	return &StockDetail{
		Symbol:        symbol,
		Name:          o.displayName(ctx, symbol),
		HasSeries:     !series.IsEmpty(),
		HasStatements: !table.IsEmpty(),
		Evaluation:    eval,
		Series:        series,
	}
}

// displayName picks the provider name, then the configured name, then a placeholder
func (o *Orchestrator) displayName(ctx context.Context, symbol contracts.Symbol) string {
	if company, err := o.provider.FetchCompany(ctx, symbol.Code); err == nil && company.Name != "" {
		return company.Name
	}
	if symbol.Name != "" {
		return symbol.Name
	}
	return "기업 " + symbol.Code
}

func missing(what string, err error) contracts.Warning {
	return contracts.Warning{
		Code:    contracts.WarnMissingData,
		Message: fmt.Sprintf("%s unavailable: %v", what, err),
	}
}

// GenerateRunID generates a unique run ID (run_YYYYMMDD_HHMMSS_xxxxxxxx).
// The suffix keeps IDs distinct when the API and scheduler start runs in the same second.
func GenerateRunID() string {
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
