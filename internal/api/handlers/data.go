package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/wonny/sepa/backend/internal/contracts"
	"github.com/wonny/sepa/backend/internal/s0_data/collector"
	"github.com/wonny/sepa/backend/internal/s0_data/quality"
	"github.com/wonny/sepa/backend/pkg/logger"
)

// DataHandler handles stored-data endpoints. Registered only with a database.
// ⭐ SSOT: 데이터 API 핸들러는 이 구조체에서만
type DataHandler struct {
	universe     contracts.Universe
	collector    *collector.Collector
	qualityGate  *quality.QualityGate
	historyStart time.Time
	yearFor      func(asOf time.Time) int
	workers      int
	logger       *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(
	universe contracts.Universe,
	col *collector.Collector,
	qualityGate *quality.QualityGate,
	historyStart time.Time,
	yearFor func(asOf time.Time) int,
	workers int,
	log *logger.Logger,
) *DataHandler {
	return &DataHandler{
		universe:     universe,
		collector:    col,
		qualityGate:  qualityGate,
		historyStart: historyStart,
		yearFor:      yearFor,
		workers:      workers,
		logger:       log,
	}
}

// GetQuality returns stored-data coverage of the universe
// GET /api/data/quality?date=YYYY-MM-DD
func (h *DataHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"), time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}

	snapshot, err := h.qualityGate.Check(r.Context(), h.universe, date, h.yearFor(date))
	if err != nil {
		h.logger.WithError(err).Error("Failed to check data quality")
		respondError(w, http.StatusInternalServerError, "Failed to check data quality")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// CollectRequest represents a data collection request
type CollectRequest struct {
	From string `json:"from"` // Optional: date range start (YYYY-MM-DD)
	To   string `json:"to"`   // Optional: date range end (YYYY-MM-DD)
	Year int    `json:"year"` // Optional: 사업보고서 연도
}

// CollectResponse represents a data collection response
type CollectResponse struct {
	Status  string                  `json:"status"`
	Message string                  `json:"message"`
	Failed  int                     `json:"failed"`
	Results []collector.FetchResult `json:"results,omitempty"`
}

// Collect fetches remote data for the universe into the database
// POST /api/data/collect
func (h *DataHandler) Collect(w http.ResponseWriter, r *http.Request) {
	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	from, err := parseDate(req.From, h.historyStart)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
		return
	}
	to, err := parseDate(req.To, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
		return
	}
	if req.Year == 0 {
		req.Year = h.yearFor(to)
	}

	h.logger.WithFields(map[string]interface{}{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
		"year": req.Year,
	}).Info("Data collection triggered")

	results, err := h.collector.Collect(r.Context(), h.universe, collector.Config{
		Workers: h.workers,
		From:    from,
		To:      to,
		Year:    req.Year,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to collect data")
		respondError(w, http.StatusInternalServerError, "Failed to collect data")
		return
	}

	resp := CollectResponse{Status: "success", Message: "Data collected", Results: results}
	for _, res := range results {
		if !res.OK() {
			resp.Failed++
		}
	}
	if resp.Failed > 0 {
		resp.Status = "partial"
	}

	respondJSON(w, http.StatusOK, resp)
}
