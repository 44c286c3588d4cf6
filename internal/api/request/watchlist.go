package request

import "github.com/shopspring/decimal"

type AddWatchlistRequest struct {
	Code string `json:"code"`
}

type UpdateWatchlistRequest struct {
	Tags        *string          `json:"tags,omitempty"`
	Memo        *string          `json:"memo,omitempty"`
	TargetPrice *decimal.Decimal `json:"targetPrice,omitempty"`
}
