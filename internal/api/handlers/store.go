package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wonny/sepa/backend/internal/brain"
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/pkg/logger"
	"github.com/wonny/sepa/backend/pkg/redis"
)

const (
	leaderboardCacheKey = "leaderboard:latest"
	leaderboardCacheTTL = 24 * time.Hour
)

// LeaderboardHistory reads stored leaderboards (selection.Repository)
type LeaderboardHistory interface {
	GetLeaderboard(ctx context.Context, date time.Time, limit int) (contracts.Leaderboard, error)
	LatestRunDate(ctx context.Context) (time.Time, error)
}

// ResultStore keeps the most recent screening run for the API.
// The leaderboard is mirrored to Redis so other processes can serve it.
// ⭐ SSOT: 마지막 스크리닝 결과 보관은 여기서만
type ResultStore struct {
	mu      sync.RWMutex
	latest  *brain.RunResult
	cache   *redis.Cache
	history LeaderboardHistory
	logger  *logger.Logger
}

// NewResultStore creates a store. cache may be nil.
func NewResultStore(cache *redis.Cache, log *logger.Logger) *ResultStore {
	return &ResultStore{cache: cache, logger: log}
}

// WithHistory serves stored leaderboards when no run is held in memory
func (s *ResultStore) WithHistory(history LeaderboardHistory) *ResultStore {
	s.history = history
	return s
}

// Set replaces the latest result
func (s *ResultStore) Set(ctx context.Context, result *brain.RunResult) {
	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	if s.cache == nil || result == nil {
		return
	}
	if err := s.cache.Set(ctx, leaderboardCacheKey, result.Leaderboard, leaderboardCacheTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to mirror leaderboard to cache")
	}
}

// Latest returns the latest in-process result
func (s *ResultStore) Latest() (*brain.RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

// Leaderboard returns the latest leaderboard: this process, then the Redis
// mirror, then the most recent stored run
func (s *ResultStore) Leaderboard(ctx context.Context) (contracts.Leaderboard, bool) {
	if result, ok := s.Latest(); ok {
		return result.Leaderboard, true
	}

	if s.cache != nil {
		var board contracts.Leaderboard
		found, err := s.cache.Get(ctx, leaderboardCacheKey, &board)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to read leaderboard cache")
		} else if found {
			return board, true
		}
	}

	if s.history == nil {
		return contracts.Leaderboard{}, false
	}
	date, err := s.history.LatestRunDate(ctx)
	if err != nil {
		if !errors.Is(err, contracts.ErrNotFound) {
			s.logger.WithError(err).Warn("Failed to read stored leaderboards")
		}
		return contracts.Leaderboard{}, false
	}
	board, err := s.LeaderboardAt(ctx, date)
	return board, err == nil
}

// LeaderboardAt returns the stored leaderboard of one run date
func (s *ResultStore) LeaderboardAt(ctx context.Context, date time.Time) (contracts.Leaderboard, error) {
	if result, ok := s.Latest(); ok && sameDay(result.AsOf, date) {
		return result.Leaderboard, nil
	}
	if s.history == nil {
		return contracts.Leaderboard{}, contracts.ErrNotFound
	}
	return s.history.GetLeaderboard(ctx, date, 0)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
