package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// TradeRecord represents one row of the append-only trade log. Records are
// immutable once appended; there are no in-place edits or deletes, and a
// record is identified by its position in the log rather than a key of its
// own. Amount is always derived as Price × Shares, never user-supplied.
type TradeRecord struct {
	Date   time.Time       `json:"date"`
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Side   TradeSide       `json:"side"`
	Price  decimal.Decimal `json:"price"`
	Shares int64           `json:"shares"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// CodeSummary is the per-instrument analytical view recomputed from the trade
// log. AvgCost here is derived from buy history alone and must agree with the
// live Holdings average cost for sequences without sells. HeldShares can go
// negative when the log records more sells than buys; the summarizer reports
// it as-is.
type CodeSummary struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	BuyShares   int64           `json:"buyShares"`
	SellShares  int64           `json:"sellShares"`
	HeldShares  int64           `json:"heldShares"`
	AvgCost     decimal.Decimal `json:"avgCost"`
	RealizedPnL decimal.Decimal `json:"realizedPnl"`
}
