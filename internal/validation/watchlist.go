package validation

import (
	"strings"

	"github.com/kabutools/kabu-ledger/internal/api/request"
)

// ValidateAddWatchlist validates a watchlist addition request.
func ValidateAddWatchlist(req request.AddWatchlistRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Code) == "" {
		errors["code"] = "code is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateWatchlist validates a watchlist update request.
// All fields are optional; a target price, if provided, must be positive.
func ValidateUpdateWatchlist(req request.UpdateWatchlistRequest) error {
	errors := make(map[string]string)

	if req.TargetPrice != nil && !req.TargetPrice.IsPositive() {
		errors["targetPrice"] = "targetPrice must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
