package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/kabutools/kabu-ledger/internal/api/request"
	"github.com/kabutools/kabu-ledger/internal/api/response"
	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/service"
	"github.com/kabutools/kabu-ledger/internal/validation"
)

// TradeHandler handles HTTP requests for trade endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the ledger and summary services.
type TradeHandler struct {
	ledgerService  *service.LedgerService
	summaryService *service.SummaryService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependencies.
func NewTradeHandler(ledgerService *service.LedgerService, summaryService *service.SummaryService) *TradeHandler {
	return &TradeHandler{
		ledgerService:  ledgerService,
		summaryService: summaryService,
	}
}

// AllTrades handles GET requests to retrieve the full trade log, oldest first.
//
// Endpoint: GET /api/trade
// Response: 200 OK with array of TradeRecord
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) AllTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.ledgerService.GetTrades(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// RecordTrade handles POST requests to record a buy or sell trade.
// Applies the trade to holdings and cash and appends it to the trade log.
//
// Endpoint: POST /api/trade
// Request Body: RecordTradeRequest (date, code, side, price, shares, note)
// Response: 201 Created with TradeRecord
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if selling more shares than held
// Error: 500 Internal Server Error if recording fails
func (h *TradeHandler) RecordTrade(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RecordTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRecordTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	record, err := h.ledgerService.RecordTrade(
		r.Context(), date, req.Code, model.TradeSide(req.Side), req.Price, req.Shares, req.Note,
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidTradeInput):
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, apperrors.ErrInsufficientShares):
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientShares.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordTrade.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, record)
}

// TradeSummary handles GET requests to retrieve per-instrument trade totals.
// Aggregates the trade log into buy/sell share counts, average cost and
// realized profit per code.
//
// Endpoint: GET /api/trade/summary
// Response: 200 OK with array of CodeSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *TradeHandler) TradeSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.summaryService.Summarize(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}
