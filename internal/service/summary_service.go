package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/repository"
)

// SummaryService computes the realized P&L view over the immutable trade log.
type SummaryService struct {
	trades *repository.TradeLogRepository
}

// NewSummaryService creates a new SummaryService with the provided repository
// dependency.
func NewSummaryService(trades *repository.TradeLogRepository) *SummaryService {
	return &SummaryService{trades: trades}
}

// Summarize partitions the trade log by instrument and aggregates each
// partition into buy/sell share counts, the buy-weighted average cost and the
// realized P&L against that average.
//
// Average cost is recomputed from history here rather than read from the
// live Holdings table: the summary is a read-only analytical view and must
// reproduce the same weighted-average law the incremental update path
// applies. For any sequence without sells the two agree exactly.
//
// heldShares = buyShares − sellShares and may be negative when the log holds
// more sells than buys (possible in imported history); it is reported as-is.
func (s *SummaryService) Summarize(ctx context.Context) ([]model.CodeSummary, error) {
	trades, err := s.trades.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	type agg struct {
		name       string
		buyShares  int64
		sellShares int64
		buyAmount  decimal.Decimal
		sellAmount decimal.Decimal
	}
	byCode := make(map[string]*agg)
	order := []string{}

	for _, t := range trades {
		a, ok := byCode[t.Code]
		if !ok {
			a = &agg{}
			byCode[t.Code] = a
			order = append(order, t.Code)
		}
		if t.Name != "" {
			a.name = t.Name
		}
		switch t.Side {
		case model.TradeSideBuy:
			a.buyShares += t.Shares
			a.buyAmount = a.buyAmount.Add(t.Amount)
		case model.TradeSideSell:
			a.sellShares += t.Shares
			a.sellAmount = a.sellAmount.Add(t.Amount)
		}
	}
	sort.Strings(order)

	summaries := make([]model.CodeSummary, 0, len(order))
	for _, code := range order {
		a := byCode[code]

		avgCost := decimal.Zero
		if a.buyShares > 0 {
			avgCost = a.buyAmount.Div(decimal.NewFromInt(a.buyShares))
		}
		realized := decimal.Zero
		if a.sellShares > 0 {
			realized = a.sellAmount.Sub(avgCost.Mul(decimal.NewFromInt(a.sellShares)))
		}

		summaries = append(summaries, model.CodeSummary{
			Code:        code,
			Name:        a.name,
			BuyShares:   a.buyShares,
			SellShares:  a.sellShares,
			HeldShares:  a.buyShares - a.sellShares,
			AvgCost:     avgCost,
			RealizedPnL: realized,
		})
	}
	return summaries, nil
}
