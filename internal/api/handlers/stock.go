package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/sepa/backend/internal/brain"
	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/fundamental"
	"github.com/wonny/sepa/backend/internal/pattern"
	"github.com/wonny/sepa/backend/internal/s2_signals"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// StockHandler serves the per-stock detail views of the latest run
type StockHandler struct {
	store  *ResultStore
	engine *s2_signals.Engine
	logger *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(store *ResultStore, engine *s2_signals.Engine, log *logger.Logger) *StockHandler {
	return &StockHandler{store: store, engine: engine, logger: log}
}

// StockDetailResponse is the detail view of one stock
type StockDetailResponse struct {
	Code                string                        `json:"code"`
	Name                string                        `json:"name"`
	AsOf                time.Time                     `json:"as_of"`
	Rank                int                           `json:"rank,omitempty"` // 0: 랭킹 제외
	Scores              contracts.ScoreBundle         `json:"scores"`
	RecommendationLabel string                        `json:"recommendation_label"`
	Stages              []contracts.StageResult       `json:"stages"`
	Metrics             contracts.FundamentalMetrics  `json:"metrics"`
	Criteria            []fundamental.CriterionStatus `json:"criteria"`
	CriteriaPassed      int                           `json:"criteria_passed"`
	Trend               contracts.TrendConditions     `json:"trend"`
	RS                  contracts.RSDetail            `json:"rs"`
	RecentPatterns      contracts.PatternSet          `json:"recent_patterns"`
	Peers               *brain.PeerRank               `json:"peers,omitempty"`
}

// lookup resolves {code} against the latest run
func (h *StockHandler) lookup(w http.ResponseWriter, r *http.Request) (*brain.RunResult, *brain.StockDetail, bool) {
	code := mux.Vars(r)["code"]

	result, ok := h.store.Latest()
	if !ok {
		respondError(w, http.StatusNotFound, "No screening result yet")
		return nil, nil, false
	}

	detail, ok := result.Detail(code)
	if !ok {
		respondError(w, http.StatusNotFound, "Stock not in universe: "+code)
		return nil, nil, false
	}
	return result, detail, true
}

// GetStock returns scores, filter stages and SEPA criteria of one stock
// GET /api/stocks/{code}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	result, detail, ok := h.lookup(w, r)
	if !ok {
		return
	}

	eval := detail.Evaluation
	thresholds := h.engine.Config().Fundamental.Thresholds

	resp := StockDetailResponse{
		Code:                detail.Symbol.Code,
		Name:                detail.Name,
		AsOf:                result.AsOf,
		Scores:              eval.Bundle,
		RecommendationLabel: eval.Bundle.Recommendation.Description(),
		Stages:              eval.Bundle.Stages(),
		Metrics:             eval.Metrics,
		Criteria:            fundamental.Status(eval.Metrics, thresholds, detail.HasStatements),
		Trend:               eval.Trend,
		RS:                  eval.RS,
		RecentPatterns:      h.engine.PatternCalculator().Recent(eval.Patterns, result.AsOf),
	}
	for _, c := range resp.Criteria {
		if c.Passed {
			resp.CriteriaPassed++
		}
	}
	if row, ok := result.Leaderboard.Find(detail.Symbol.Code); ok {
		resp.Rank = row.Rank
	}
	if peers, ok := result.PeerRank(detail.Symbol.Code); ok {
		resp.Peers = &peers
	}

	respondJSON(w, http.StatusOK, resp)
}

// PatternsResponse lists detected chart patterns
type PatternsResponse struct {
	Code     string               `json:"code"`
	AsOf     time.Time            `json:"as_of"`
	All      bool                 `json:"all"`
	Count    int                  `json:"count"`
	Patterns contracts.PatternSet `json:"patterns"`
}

// GetPatterns returns recent pattern events per kind, or every event with ?all=true
// GET /api/stocks/{code}/patterns
func (h *StockHandler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	result, detail, ok := h.lookup(w, r)
	if !ok {
		return
	}

	all := queryBool(r, "all")
	set := detail.Evaluation.Patterns
	if !all {
		set = h.engine.PatternCalculator().Recent(set, result.AsOf)
	}
	if set == nil {
		set = contracts.PatternSet{}
	}

	respondJSON(w, http.StatusOK, PatternsResponse{
		Code:     detail.Symbol.Code,
		AsOf:     result.AsOf,
		All:      all,
		Count:    set.Count(),
		Patterns: set,
	})
}

// IndicatorsResponse holds chart series aligned with Dates
type IndicatorsResponse struct {
	Code       string             `json:"code"`
	Dates      []string           `json:"dates"`
	Closes     []float64          `json:"closes"`
	Volumes    []int64            `json:"volumes"`
	Indicators pattern.Indicators `json:"indicators"`
}

// GetIndicators returns Bollinger bands and moving averages for chart drawing
// GET /api/stocks/{code}/indicators?days=N
func (h *StockHandler) GetIndicators(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(r, "days", 250)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid 'days' (expected a non-negative integer)")
		return
	}

	_, detail, ok := h.lookup(w, r)
	if !ok {
		return
	}

	series := detail.Series
	ind := pattern.ComputeIndicators(series, h.engine.Config().Pattern.Detector)

	from := 0
	if days > 0 && days < series.Len() {
		from = series.Len() - days
	}

	resp := IndicatorsResponse{
		Code:    detail.Symbol.Code,
		Dates:   make([]string, 0, series.Len()-from),
		Closes:  make([]float64, 0, series.Len()-from),
		Volumes: make([]int64, 0, series.Len()-from),
		Indicators: pattern.Indicators{
			BBMiddle: ind.BBMiddle[from:],
			BBUpper:  ind.BBUpper[from:],
			BBLower:  ind.BBLower[from:],
			MA20:     ind.MA20[from:],
			MA50:     ind.MA50[from:],
			MA200:    ind.MA200[from:],
			VolMA20:  ind.VolMA20[from:],
		},
	}
	for _, b := range series.Bars[from:] {
		resp.Dates = append(resp.Dates, b.Date.Format("2006-01-02"))
		resp.Closes = append(resp.Closes, b.Close)
		resp.Volumes = append(resp.Volumes, b.Volume)
	}

	respondJSON(w, http.StatusOK, resp)
}
