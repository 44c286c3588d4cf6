package handlers

import (
	"net/http"

	"github.com/kabutools/kabu-ledger/internal/api/response"
	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/service"
)

// HoldingsHandler handles HTTP requests for holdings endpoints.
type HoldingsHandler struct {
	ledgerService    *service.LedgerService
	valuationService *service.ValuationService
}

// NewHoldingsHandler creates a new HoldingsHandler with the provided service dependencies.
func NewHoldingsHandler(ledgerService *service.LedgerService, valuationService *service.ValuationService) *HoldingsHandler {
	return &HoldingsHandler{
		ledgerService:    ledgerService,
		valuationService: valuationService,
	}
}

// ValuationResponse bundles per-holding valuations with portfolio totals.
type ValuationResponse struct {
	Holdings []model.HoldingValuation `json:"holdings"`
	Totals   model.ValuationTotals    `json:"totals"`
}

// Holdings handles GET requests to retrieve current holdings without quotes.
//
// Endpoint: GET /api/holdings
// Response: 200 OK with array of Holding
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingsHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.ledgerService.GetHoldings(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// Valuation handles GET requests to retrieve holdings valued at fresh quotes.
// Holdings whose quote is unavailable appear with market value and P&L omitted.
//
// Endpoint: GET /api/holdings/valuation
// Response: 200 OK with ValuationResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingsHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.ledgerService.GetHoldings(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	valuations, totals, _ := h.valuationService.RefreshValuation(r.Context(), holdings)

	response.RespondJSON(w, http.StatusOK, ValuationResponse{
		Holdings: valuations,
		Totals:   totals,
	})
}
