package request

import "github.com/shopspring/decimal"

type RecordTradeRequest struct {
	Date   string          `json:"date"`
	Code   string          `json:"code"`
	Side   string          `json:"side"`
	Price  decimal.Decimal `json:"price"`
	Shares int64           `json:"shares"`
	Note   string          `json:"note,omitempty"`
}
