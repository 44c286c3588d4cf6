package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/api/response"
	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/service"
)

// LedgerHandler handles HTTP requests for ledger maintenance operations.
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler with the provided service dependency.
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// RebuildResponse carries the state derived by a ledger rebuild.
type RebuildResponse struct {
	Holdings []model.Holding `json:"holdings"`
	Cash     decimal.Decimal `json:"cash"`
}

// Rebuild handles POST requests to re-derive holdings and cash from the trade
// log, overwriting both tables. This is the recovery path after corruption or
// a lost update from concurrent writers.
//
// Endpoint: POST /api/ledger/rebuild
// Response: 200 OK with RebuildResponse
// Error: 500 Internal Server Error if the rebuild fails
func (h *LedgerHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	holdings, cash, err := h.ledgerService.RebuildLedger(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRebuildLedger.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, RebuildResponse{
		Holdings: holdings,
		Cash:     cash,
	})
}
