package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/sepa/backend/pkg/config"
)

// ErrNotConfigured is returned when DATABASE_URL is empty
var ErrNotConfigured = errors.New("database not configured")

// DB wraps the pgxpool.Pool
// ⭐ SSOT: DB 연결은 이 패키지에서만 생성
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool
// ⭐ SSOT: 유일하게 pgxpool.NewWithConfig()를 호출하는 함수
func New(ctx context.Context, cfg *config.Config) (*DB, error) {
	if !cfg.Database.Enabled() {
		return nil, ErrNotConfigured
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks if the database is accessible
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// schema holds the tables read by the screening data providers and the
// stored leaderboards.
// Amounts stay as the text reported by DART; parsing happens in the scoring core.
var schema = []string{
	`CREATE SCHEMA IF NOT EXISTS data`,
	`CREATE TABLE IF NOT EXISTS data.daily_prices (
		stock_code  TEXT        NOT NULL,
		trade_date  DATE        NOT NULL,
		open_price  DOUBLE PRECISION NOT NULL,
		high_price  DOUBLE PRECISION NOT NULL,
		low_price   DOUBLE PRECISION NOT NULL,
		close_price DOUBLE PRECISION NOT NULL,
		volume      BIGINT      NOT NULL,
		PRIMARY KEY (stock_code, trade_date)
	)`,
	`CREATE TABLE IF NOT EXISTS data.financial_statements (
		stock_code     TEXT NOT NULL,
		bsns_year      INT  NOT NULL,
		account_nm     TEXT NOT NULL,
		fs_div         TEXT NOT NULL,
		thstrm_amount  TEXT NOT NULL DEFAULT '',
		frmtrm_amount  TEXT NOT NULL DEFAULT '',
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (stock_code, bsns_year, account_nm, fs_div)
	)`,
	`CREATE TABLE IF NOT EXISTS data.companies (
		stock_code TEXT PRIMARY KEY,
		corp_name  TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE SCHEMA IF NOT EXISTS selection`,
	`CREATE TABLE IF NOT EXISTS selection.leaderboard (
		run_date           DATE    NOT NULL,
		stock_code         TEXT    NOT NULL,
		corp_name          TEXT    NOT NULL DEFAULT '',
		rank               INT     NOT NULL,
		total_score        DOUBLE PRECISION NOT NULL,
		trend_score        DOUBLE PRECISION NOT NULL,
		fundamental_score  DOUBLE PRECISION NOT NULL,
		rs_score           DOUBLE PRECISION NOT NULL,
		pattern_score      DOUBLE PRECISION NOT NULL,
		trend_passed       BOOLEAN NOT NULL,
		fundamental_passed BOOLEAN NOT NULL,
		rs_passed          BOOLEAN NOT NULL,
		recommendation     TEXT    NOT NULL,
		warnings           JSONB,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (run_date, stock_code)
	)`,
}

// EnsureSchema creates the screening tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// HealthCheck returns detailed health information about the database
func (db *DB) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Healthy:   false,
		Timestamp: time.Now(),
	}

	start := time.Now()
	if err := db.Pool.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status, err
	}
	status.ResponseTime = time.Since(start)

	stats := db.Pool.Stat()
	status.Stats = PoolStats{
		AcquiredConns: stats.AcquiredConns(),
		IdleConns:     stats.IdleConns(),
		MaxConns:      stats.MaxConns(),
		TotalConns:    stats.TotalConns(),
	}

	status.Healthy = true
	return status, nil
}

// HealthStatus represents the health status of the database
type HealthStatus struct {
	Healthy      bool          `json:"healthy"`
	Timestamp    time.Time     `json:"timestamp"`
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
	Stats        PoolStats     `json:"stats"`
}

// PoolStats represents connection pool statistics
type PoolStats struct {
	AcquiredConns int32 `json:"acquired_conns"`
	IdleConns     int32 `json:"idle_conns"`
	MaxConns      int32 `json:"max_conns"`
	TotalConns    int32 `json:"total_conns"`
}
