package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kabutools/kabu-ledger/internal/api/request"
	"github.com/kabutools/kabu-ledger/internal/api/response"
	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/service"
	"github.com/kabutools/kabu-ledger/internal/validation"
)

// WatchlistHandler handles HTTP requests for watchlist endpoints.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler with the provided service dependency.
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// RefreshResponse reports how many entries a refresh pass updated.
type RefreshResponse struct {
	Updated int `json:"updated"`
}

// Watchlist handles GET requests to list watchlist entries.
// Supports sorting by quote metric and filtering by tags.
//
// Endpoint: GET /api/watchlist?sort=per&order=asc&tags=high-div,value
// Response: 200 OK with array of WatchlistEntryView
// Error: 500 Internal Server Error if retrieval fails
func (h *WatchlistHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	sortKey := r.URL.Query().Get("sort")
	ascending := r.URL.Query().Get("order") != "desc"

	var tagFilter []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tagFilter = append(tagFilter, trimmed)
			}
		}
	}

	entries, err := h.watchlistService.List(r.Context(), sortKey, ascending, tagFilter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveWatchlist.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}

// AddEntry handles POST requests to put a code on the watchlist.
// Re-adding a listed code increments its handbook counter instead of
// creating a duplicate.
//
// Endpoint: POST /api/watchlist
// Request Body: AddWatchlistRequest (code)
// Response: 201 Created with WatchlistEntry when newly listed
// Response: 200 OK with WatchlistEntry when the counter was incremented
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the update fails
func (h *WatchlistHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddWatchlistRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddWatchlist(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, created, err := h.watchlistService.Add(r.Context(), req.Code)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateWatchlist.Error(), err.Error())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.RespondJSON(w, status, entry)
}

// UpdateEntry handles PUT requests to edit the user-owned fields of an entry:
// tags, memo and target price.
//
// Endpoint: PUT /api/watchlist/{code}
// Request Body: UpdateWatchlistRequest (all fields optional)
// Response: 200 OK with updated WatchlistEntry
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the code is not on the watchlist
// Error: 500 Internal Server Error if the update fails
func (h *WatchlistHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	req, err := parseJSON[request.UpdateWatchlistRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateWatchlist(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.watchlistService.Update(r.Context(), code, req.Tags, req.Memo, req.TargetPrice)
	if err != nil {
		if errors.Is(err, apperrors.ErrWatchlistEntryNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrWatchlistEntryNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateWatchlist.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE requests to remove a code from the watchlist.
//
// Endpoint: DELETE /api/watchlist/{code}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the code is not on the watchlist
// Error: 500 Internal Server Error if deletion fails
func (h *WatchlistHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.watchlistService.Delete(r.Context(), code); err != nil {
		if errors.Is(err, apperrors.ErrWatchlistEntryNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrWatchlistEntryNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateWatchlist.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Tags handles GET requests to list every tag in use on the watchlist.
//
// Endpoint: GET /api/watchlist/tags
// Response: 200 OK with sorted array of tag strings
// Error: 500 Internal Server Error if retrieval fails
func (h *WatchlistHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.watchlistService.Tags(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveWatchlist.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, tags)
}

// Refresh handles POST requests to re-quote every watchlist entry.
// Fields a degraded quote does not carry keep their previous values.
//
// Endpoint: POST /api/watchlist/refresh
// Response: 200 OK with RefreshResponse
// Error: 500 Internal Server Error if the refresh fails
func (h *WatchlistHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	updated, err := h.watchlistService.RefreshAll(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshQuotes.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, RefreshResponse{Updated: updated})
}
