package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/api/request"
	"github.com/kabutools/kabu-ledger/internal/api/response"
	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/service"
)

// CashHandler handles HTTP requests for the cash balance.
type CashHandler struct {
	ledgerService *service.LedgerService
}

// NewCashHandler creates a new CashHandler with the provided service dependency.
func NewCashHandler(ledgerService *service.LedgerService) *CashHandler {
	return &CashHandler{ledgerService: ledgerService}
}

// CashResponse represents the cash balance.
type CashResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

// Cash handles GET requests to retrieve the current cash balance.
//
// Endpoint: GET /api/cash
// Response: 200 OK with CashResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *CashHandler) Cash(w http.ResponseWriter, r *http.Request) {
	amount, err := h.ledgerService.GetCash(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCash.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, CashResponse{Amount: amount})
}

// SetCash handles PUT requests to overwrite the cash balance. Negative
// balances are accepted; outside of trades the number is user-owned.
//
// Endpoint: PUT /api/cash
// Request Body: SetCashRequest (amount)
// Response: 200 OK with CashResponse
// Error: 400 Bad Request if request body is invalid
// Error: 500 Internal Server Error if the update fails
func (h *CashHandler) SetCash(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetCashRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.ledgerService.SetCash(r.Context(), req.Amount); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateCash.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, CashResponse{Amount: req.Amount})
}
