package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/apperrors"
	"github.com/kabutools/kabu-ledger/internal/model"
)

// This file holds the pure accounting arithmetic of the ledger. Nothing here
// touches storage, and nothing here rounds: average cost keeps full precision
// until the holdings repository persists it.

// ApplyBuy returns the holding after buying shares at price.
//
// With no existing position the holding is created with average cost equal to
// the buy price. Otherwise the average cost follows the weighted-average law:
//
//	newAvg = (oldAvg×oldShares + price×shares) / (oldShares + shares)
//
// shares must be positive and an existing holding always has positive shares
// (zero-share holdings are deleted), so the division cannot hit zero.
func ApplyBuy(existing *model.Holding, code, name string, price decimal.Decimal, shares int64) model.Holding {
	if existing == nil {
		return model.Holding{Code: code, Name: name, AvgCost: price, Shares: shares}
	}

	bought := decimal.NewFromInt(shares)
	held := decimal.NewFromInt(existing.Shares)
	totalCost := existing.AvgCost.Mul(held).Add(price.Mul(bought))
	newShares := existing.Shares + shares

	updated := *existing
	if name != "" {
		updated.Name = name
	}
	updated.AvgCost = totalCost.Div(decimal.NewFromInt(newShares))
	updated.Shares = newShares
	return updated
}

// ApplySell returns the holding after selling shares, or nil when the
// position closes. Selling more than is held fails with
// apperrors.ErrInsufficientShares; the caller must not write anything in that
// case. A partial sell never changes the average cost: under
// weighted-average accounting the cost basis per remaining share is
// unaffected by disposal.
func ApplySell(holding model.Holding, shares int64) (*model.Holding, error) {
	if shares > holding.Shares {
		return nil, fmt.Errorf("%w: have %d, selling %d of %s",
			apperrors.ErrInsufficientShares, holding.Shares, shares, holding.Code)
	}

	remaining := holding.Shares - shares
	if remaining <= 0 {
		return nil, nil
	}
	updated := holding
	updated.Shares = remaining
	return &updated, nil
}

// ApplyCashDelta returns the cash balance after a trade settles: buys
// subtract the amount, sells add it. There is no floor at zero; this is a
// bookkeeping ledger without a margin model, and overdraft is recorded as-is.
func ApplyCashDelta(cash decimal.Decimal, side model.TradeSide, amount decimal.Decimal) decimal.Decimal {
	if side == model.TradeSideBuy {
		return cash.Sub(amount)
	}
	return cash.Add(amount)
}

// RebuildFromLedger replays the trade log from the beginning and returns the
// holdings and the net trade cash flow it implies. The trade log is the
// source of truth; Holdings and CashBalance are materialized views, and this
// replay is the recovery path when a crash or a concurrent-writer race leaves
// them inconsistent.
//
// The returned cash is the sum of trade deltas from zero. Deposits and
// withdrawals edited directly on the cash table are not part of the log and
// are therefore not reproduced.
//
// Replay is tolerant of historical over-sells (the live path rejects them,
// but an imported log may contain them): a sell that exceeds the held count
// simply removes the position.
func RebuildFromLedger(trades []model.TradeRecord) ([]model.Holding, decimal.Decimal) {
	byCode := make(map[string]*model.Holding)
	cash := decimal.Zero

	for _, t := range trades {
		cash = ApplyCashDelta(cash, t.Side, t.Amount)

		switch t.Side {
		case model.TradeSideBuy:
			updated := ApplyBuy(byCode[t.Code], t.Code, t.Name, t.Price, t.Shares)
			byCode[t.Code] = &updated
		case model.TradeSideSell:
			holding, ok := byCode[t.Code]
			if !ok {
				continue
			}
			remaining, err := ApplySell(*holding, t.Shares)
			if err != nil || remaining == nil {
				delete(byCode, t.Code)
				continue
			}
			byCode[t.Code] = remaining
		}
	}

	holdings := make([]model.Holding, 0, len(byCode))
	for _, h := range byCode {
		holdings = append(holdings, *h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Code < holdings[j].Code })
	return holdings, cash
}
