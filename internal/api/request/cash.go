package request

import "github.com/shopspring/decimal"

type SetCashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
