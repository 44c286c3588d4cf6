package model

import "github.com/shopspring/decimal"

// Quote is a point-in-time market snapshot for one instrument. Every field is
// optional: providers degrade to the empty quote on rate limits and lookup
// failures instead of returning an error, and callers must decide explicitly
// what a missing field means. ROEPct is expressed as a percentage.
type Quote struct {
	DisplayName   string           `json:"displayName,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	PER           *decimal.Decimal `json:"per,omitempty"`
	PBR           *decimal.Decimal `json:"pbr,omitempty"`
	ROEPct        *decimal.Decimal `json:"roePct,omitempty"`
	DividendYield *decimal.Decimal `json:"dividendYield,omitempty"`
	EPS           *decimal.Decimal `json:"eps,omitempty"`
}

// IsEmpty reports whether the quote carries no data at all.
func (q Quote) IsEmpty() bool {
	return q.DisplayName == "" && q.Price == nil && q.PER == nil && q.PBR == nil &&
		q.ROEPct == nil && q.DividendYield == nil && q.EPS == nil
}
