package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/wonny/sepa/backend/internal/brain"
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/selection"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// Runner executes a screening run
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// RunConfigFunc builds the run configuration for a given as-of date
type RunConfigFunc func(asOf time.Time) brain.RunConfig

// ScreenHandler serves the leaderboard and re-runs the screen
// ⭐ SSOT: 스크리닝 API 핸들러는 이 구조체에서만
type ScreenHandler struct {
	store     *ResultStore
	runner    Runner
	runConfig RunConfigFunc
	screener  *selection.Screener
	timeout   time.Duration // 0 = request context only
	logger    *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(
	store *ResultStore,
	runner Runner,
	runConfig RunConfigFunc,
	screener *selection.Screener,
	log *logger.Logger,
) *ScreenHandler {
	return &ScreenHandler{
		store:     store,
		runner:    runner,
		runConfig: runConfig,
		screener:  screener,
		logger:    log,
	}
}

// WithRunTimeout bounds each POST /api/screen run
func (h *ScreenHandler) WithRunTimeout(timeout time.Duration) *ScreenHandler {
	h.timeout = timeout
	return h
}

// LeaderboardResponse is the ranked list returned by the API
type LeaderboardResponse struct {
	AsOf     time.Time               `json:"as_of"`
	Total    int                     `json:"total"`
	Count    int                     `json:"count"`
	Stocks   []contracts.RankedStock `json:"stocks"`
	Rejected map[string]int          `json:"rejected,omitempty"`
}

// GetLeaderboard returns the latest leaderboard
// GET /api/leaderboard?top=N&passed_only=true&date=YYYY-MM-DD
func (h *ScreenHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	top, ok := queryInt(r, "top", 0)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'top' (expected a non-negative integer)")
		return
	}

	var board contracts.Leaderboard
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := parseDate(raw, time.Time{})
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
			return
		}
		board, err = h.store.LeaderboardAt(r.Context(), date)
		if errors.Is(err, contracts.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No leaderboard for "+raw)
			return
		}
		if err != nil {
			h.logger.WithError(err).Error("Failed to load stored leaderboard")
			respondError(w, http.StatusInternalServerError, "Failed to load leaderboard")
			return
		}
	} else {
		var found bool
		if board, found = h.store.Leaderboard(r.Context()); !found {
			respondError(w, http.StatusNotFound, "No screening result yet")
			return
		}
	}

	resp := LeaderboardResponse{AsOf: board.AsOf, Total: board.Count(), Stocks: board.Stocks}
	if queryBool(r, "passed_only") {
		resp.Stocks, resp.Rejected = h.screener.Screen(board.Stocks)
	}
	if top > 0 && top < len(resp.Stocks) {
		resp.Stocks = resp.Stocks[:top]
	}
	if resp.Stocks == nil {
		resp.Stocks = []contracts.RankedStock{}
	}
	resp.Count = len(resp.Stocks)

	respondJSON(w, http.StatusOK, resp)
}

// ScreenRequest is the optional body of a re-run
type ScreenRequest struct {
	AsOf string `json:"as_of"` // YYYY-MM-DD (기본: 오늘)
}

// ScreenResponse summarizes a finished run
type ScreenResponse struct {
	RunID       string                  `json:"run_id"`
	AsOf        time.Time               `json:"as_of"`
	Year        int                     `json:"year"`
	Ranked      int                     `json:"ranked"`
	Skipped     []string                `json:"skipped,omitempty"`
	DurationSec float64                 `json:"duration_sec"`
	Top         []contracts.RankedStock `json:"top"`
}

// Screen re-runs the screen and publishes the result
// POST /api/screen
func (h *ScreenHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req ScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asOf, err := parseDate(req.AsOf, contracts.TradeDate(time.Now()))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'as_of' date format (expected YYYY-MM-DD)")
		return
	}

	h.logger.WithField("as_of", asOf.Format("2006-01-02")).Info("Screening triggered")

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.runner.Run(ctx, h.runConfig(asOf))
	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.WithField("timeout", h.timeout.String()).Error("Screening run timed out")
		respondError(w, http.StatusGatewayTimeout, "Screening run timed out")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Screening run failed")
		respondError(w, http.StatusInternalServerError, "Screening run failed")
		return
	}
	h.store.Set(r.Context(), result)

	respondJSON(w, http.StatusOK, ScreenResponse{
		RunID:       result.RunID,
		AsOf:        result.AsOf,
		Year:        result.Year,
		Ranked:      result.Leaderboard.Count(),
		Skipped:     result.Skipped,
		DurationSec: result.Duration.Seconds(),
		Top:         result.Leaderboard.Top(10),
	})
}
