package model

import "github.com/shopspring/decimal"

// Holding represents one row of the Holdings table: a single open position.
// There is at most one holding per canonical instrument code; a trade against
// an existing code mutates its row, never creates a duplicate. A holding is
// created on the first buy and removed once its share count reaches zero.
type Holding struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	AvgCost decimal.Decimal `json:"avgCost"`
	Shares  int64           `json:"shares"`
}

// HoldingValuation is a holding enriched with a point-in-time quote. Pointer
// fields stay nil when the quote lacked the corresponding value; downstream
// totals only sum fields that are present.
type HoldingValuation struct {
	Holding
	Price          *decimal.Decimal `json:"price,omitempty"`
	PER            *decimal.Decimal `json:"per,omitempty"`
	PBR            *decimal.Decimal `json:"pbr,omitempty"`
	ROEPct         *decimal.Decimal `json:"roePct,omitempty"`
	MarketValue    *decimal.Decimal `json:"marketValue,omitempty"`
	UnrealizedPnL  *decimal.Decimal `json:"unrealizedPnl,omitempty"`
	LookThrough    *decimal.Decimal `json:"lookThrough,omitempty"`
	IRSearcherLink string           `json:"irSearcherLink"`
	IRBankLink     string           `json:"irBankLink"`
}

// ValuationTotals aggregates a valuation pass across all holdings. Only
// holdings whose quote carried the relevant field contribute to each total.
type ValuationTotals struct {
	TotalMarketValue decimal.Decimal `json:"totalMarketValue"`
	TotalUnrealized  decimal.Decimal `json:"totalUnrealizedPnl"`
	TotalLookThrough decimal.Decimal `json:"totalLookThrough"`
}
