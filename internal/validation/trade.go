package validation

import (
	"fmt"
	"strings"

	"github.com/kabutools/kabu-ledger/internal/api/request"
)

// ValidTradeSide contains the allowed trade side values.
var ValidTradeSide = map[string]bool{
	"buy": true, "sell": true,
}

// ValidateRecordTrade validates a trade recording request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - code: Must be non-empty (normalized by the service)
//   - side: Must be one of: buy, sell
//   - price: Must be positive
//   - shares: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRecordTrade(req request.RecordTradeRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "date", req.Date)

	if strings.TrimSpace(req.Code) == "" {
		errors["code"] = "code is required"
	}

	if strings.TrimSpace(req.Side) == "" {
		errors["side"] = "side is required"
	} else if !ValidTradeSide[req.Side] {
		errors["side"] = fmt.Sprintf("invalid side: %s", req.Side)
	}

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if req.Shares <= 0 {
		errors["shares"] = "shares must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
