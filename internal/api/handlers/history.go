package handlers

import (
	"net/http"
	"time"

	"github.com/kabutools/kabu-ledger/internal/api/response"
	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/service"
)

// HistoryHandler handles HTTP requests for the net-worth history and the
// quarterly snapshots.
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler with the provided service dependency.
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// RecordResponse reports which derived series a recording pass wrote.
type RecordResponse struct {
	DailyRecorded     bool `json:"dailyRecorded"`
	QuarterlyRecorded bool `json:"quarterlyRecorded"`
}

// History handles GET requests to retrieve the daily net-worth history.
//
// Endpoint: GET /api/history
// Response: 200 OK with array of NetWorthPoint
// Error: 500 Internal Server Error if retrieval fails
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	points, err := h.historyService.GetHistory(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}

// Snapshots handles GET requests to retrieve all quarterly snapshot rows.
//
// Endpoint: GET /api/snapshot
// Response: 200 OK with array of QuarterlySnapshotRow
// Error: 500 Internal Server Error if retrieval fails
func (h *HistoryHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	rows, err := h.historyService.GetSnapshots(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSnapshots.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rows)
}

// SnapshotResponse reports whether a quarterly snapshot batch was written.
type SnapshotResponse struct {
	QuarterlyRecorded bool `json:"quarterlyRecorded"`
}

// RecordSnapshot handles POST requests to record a quarterly snapshot on
// demand. Recording is idempotent per quarter and only fires in quarter-end
// months, so re-running is safe.
//
// Endpoint: POST /api/snapshot/record
// Response: 200 OK with SnapshotResponse
// Error: 500 Internal Server Error if recording fails
func (h *HistoryHandler) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	quarterly, err := h.historyService.RecordQuarter(r.Context(), time.Now())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordSnapshot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, SnapshotResponse{QuarterlyRecorded: quarterly})
}

// Record handles POST requests to run the close-of-day recording flow on
// demand. Recording is idempotent per day and per quarter, so re-running is
// safe; the response reports what was actually written.
//
// Endpoint: POST /api/history/record
// Response: 200 OK with RecordResponse
// Error: 500 Internal Server Error if recording fails
func (h *HistoryHandler) Record(w http.ResponseWriter, r *http.Request) {
	daily, quarterly, err := h.historyService.RecordToday(r.Context(), time.Now())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, RecordResponse{
		DailyRecorded:     daily,
		QuarterlyRecorded: quarterly,
	})
}
