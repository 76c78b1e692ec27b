package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/sepa/backend/internal/brain"
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/external/dart"
	"github.com/wonny/sepa/backend/internal/external/naver"
	"github.com/wonny/sepa/backend/internal/s0_data"
	"github.com/wonny/sepa/backend/internal/s0_data/collector"
	"github.com/wonny/sepa/backend/internal/s0_data/quality"
	"github.com/wonny/sepa/backend/internal/s2_signals"
	"github.com/wonny/sepa/backend/internal/selection"
	"github.com/wonny/sepa/backend/internal/strategyconfig"
	"github.com/wonny/sepa/backend/pkg/config"
	"github.com/wonny/sepa/backend/pkg/database"
	"github.com/wonny/sepa/backend/pkg/httputil"
	"github.com/wonny/sepa/backend/pkg/logger"
	"github.com/wonny/sepa/backend/pkg/redis"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	strategy *strategyconfig.Config

	db    *database.DB // nil when DATABASE_URL is empty
	redis *redis.Client
	cache *redis.Cache

	sources  contracts.DataProvider // Naver + DART, uncached (collection)
	remote   contracts.DataProvider // sources behind the Redis cache
	provider contracts.DataProvider // DB first, remote on miss
	store    s0_data.Store          // nil without a database

	engine       *s2_signals.Engine
	orchestrator *brain.Orchestrator
	leaderboards *selection.Repository // nil without a database
}

// newApp loads configuration and wires the screening pipeline.
// Postgres and Redis are optional; without them data comes straight from the remote sources.
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if strategyPath != "" {
		cfg.Screen.StrategyPath = strategyPath
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load strategy
	strategy, err := strategyconfig.LoadOrDefault(cfg.Screen.StrategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	if err := strategyconfig.Validate(strategy); err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}
	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	a := &app{cfg: cfg, log: log, strategy: strategy}

	// 4. Connect to database (optional)
	db, err := database.New(ctx, cfg)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Info("DATABASE_URL not set, reading remote sources only")
	case err != nil:
		return nil, fmt.Errorf("connect to database: %w", err)
	default:
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		log.Info("Connected to database")
	}

	// 5. Connect to Redis (disabled client is a no-op)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc
	a.cache = redis.NewCache(rc, "sepa")
	limiter := redis.NewRateLimiter(rc, "sepa")

	// 6. Create external API clients
	naverHTTP := httputil.New(log).
		WithTimeout(15*time.Second).
		WithRetry(3, 500*time.Millisecond).
		WithLocalLimit(5, 2).
		WithRateLimiter(limiter, redis.NaverRateLimit)
	naverClient := naver.NewClient(naverHTTP, cfg.Naver.BaseURL, cfg.Naver.ChartURL, log)

	dartHTTP := dart.NewHTTPClient(log).
		WithLocalLimit(2, 1).
		WithRateLimiter(limiter, redis.DARTRateLimit)
	dartClient := dart.NewClientWithHTTP(cfg.DART.APIKey, cfg.DART.BaseURL, dartHTTP, log)
	if cfg.DART.APIKey == "" {
		log.Warn("DART_API_KEY not set, fundamental scores will be degraded")
	}

	// 7. Create data providers
	remote := s0_data.NewRemoteProvider(naverClient, dartClient, log, naverClient, dartClient)
	a.sources = remote
	if a.db != nil {
		repo := s0_data.NewRepositoryProvider(a.db.Pool)
		a.store = repo
		a.remote = s0_data.NewCachedProvider(remote, a.cache, repo, log).WithPriceTTL(cfg.Screen.CacheTTL)
		a.provider = s0_data.NewFallbackProvider(repo, a.remote)
		a.leaderboards = selection.NewRepository(a.db.Pool)
	} else {
		a.remote = s0_data.NewCachedProvider(remote, a.cache, nil, log).WithPriceTTL(cfg.Screen.CacheTTL)
		a.provider = a.remote
	}

	// 8. Create scoring pipeline
	a.engine = s2_signals.NewEngine(strategy.ToSignalsConfig(), log)
	a.orchestrator = brain.NewOrchestrator(
		strategy.ToUniverse(),
		a.provider,
		a.engine,
		selection.NewRanker(log),
		log,
	)

	return a, nil
}

// runConfig builds the run configuration for asOf
func (a *app) runConfig(asOf time.Time) brain.RunConfig {
	return brain.RunConfig{
		RunID:        brain.GenerateRunID(),
		AsOf:         asOf,
		HistoryStart: a.strategy.HistoryStart(),
		Year:         a.cfg.StatementYearFor(asOf),
		Workers:      a.cfg.Screen.Workers,
	}
}

// screener returns the leaderboard filter configured by the strategy
func (a *app) screener() *selection.Screener {
	return selection.NewScreener(a.strategy.ToScreenerConfig(), a.log)
}

// location returns the strategy timezone (Asia/Seoul by default)
func (a *app) location() *time.Location {
	name := a.strategy.Meta.Timezone
	if name == "" {
		name = "Asia/Seoul"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		a.log.WithError(err).Warnf("Unknown timezone %q, using UTC", name)
		return time.UTC
	}
	return loc
}

// requireDB fails commands that only make sense with stored data
func (a *app) requireDB(command string) error {
	if a.db == nil {
		return fmt.Errorf("%s requires DATABASE_URL", command)
	}
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// collector copies remote inputs into the database
func (a *app) collector() (*collector.Collector, error) {
	if err := a.requireDB("data collection"); err != nil {
		return nil, err
	}
	return collector.NewCollector(a.sources, a.store, a.log), nil
}

// qualityGate checks stored-data coverage
func (a *app) qualityGate() (*quality.QualityGate, error) {
	if err := a.requireDB("quality check"); err != nil {
		return nil, err
	}
	return quality.NewQualityGate(a.db.Pool, quality.DefaultConfig()), nil
}
