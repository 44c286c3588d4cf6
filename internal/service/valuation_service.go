package service

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kabutools/kabu-ledger/internal/model"
	"github.com/kabutools/kabu-ledger/internal/symbol"
)

// QuoteProvider returns a point-in-time quote for an instrument. Lookup never
// fails: rate limits and provider errors all collapse to the empty quote, and
// callers decide explicitly what each missing field means.
type QuoteProvider interface {
	Lookup(ctx context.Context, code string) model.Quote
}

// quoteFetchConcurrency bounds parallel provider calls so a large portfolio
// does not trip the provider's rate limiting.
const quoteFetchConcurrency = 4

// ValuationService derives per-holding and portfolio-level valuations from
// fresh quotes.
type ValuationService struct {
	quotes QuoteProvider
}

// NewValuationService creates a new ValuationService with the provided quote
// provider.
func NewValuationService(quotes QuoteProvider) *ValuationService {
	return &ValuationService{quotes: quotes}
}

// FetchQuotes looks up a quote for every code, fanning out with bounded
// concurrency. The result maps each input code to its quote; codes the
// provider knows nothing about map to the empty quote.
func (s *ValuationService) FetchQuotes(ctx context.Context, codes []string) map[string]model.Quote {
	quotes := make([]model.Quote, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteFetchConcurrency)
	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			quotes[i] = s.quotes.Lookup(gctx, code)
			return nil
		})
	}
	// Lookups never return errors; Wait only propagates context cancellation.
	_ = g.Wait()

	byCode := make(map[string]model.Quote, len(codes))
	for i, code := range codes {
		byCode[code] = quotes[i]
	}
	return byCode
}

// RefreshValuation values each holding against a fresh quote.
//
// Market value, unrealized P&L and look-through earnings are only computed
// when the quote actually carries the required field (price for the first
// two, EPS for the third); a missing quote leaves them nil rather than
// implying zero. Totals sum the holdings that contributed a value.
func (s *ValuationService) RefreshValuation(
	ctx context.Context,
	holdings []model.Holding,
) ([]model.HoldingValuation, model.ValuationTotals, map[string]model.Quote) {
	codes := make([]string, len(holdings))
	for i, h := range holdings {
		codes[i] = h.Code
	}
	quotes := s.FetchQuotes(ctx, codes)

	valuations := make([]model.HoldingValuation, len(holdings))
	var totals model.ValuationTotals

	for i, h := range holdings {
		quote := quotes[h.Code]
		v := model.HoldingValuation{
			Holding: h,
			Price:   quote.Price,
			PER:     quote.PER,
			PBR:     quote.PBR,
			ROEPct:  quote.ROEPct,
		}
		v.IRSearcherLink, v.IRBankLink = symbol.ResearchLinks(h.Code)

		shares := decimal.NewFromInt(h.Shares)
		if quote.Price != nil {
			value := quote.Price.Mul(shares)
			pnl := value.Sub(h.AvgCost.Mul(shares))
			v.MarketValue = &value
			v.UnrealizedPnL = &pnl
			totals.TotalMarketValue = totals.TotalMarketValue.Add(value)
			totals.TotalUnrealized = totals.TotalUnrealized.Add(pnl)
		}
		if quote.EPS != nil {
			lookThrough := quote.EPS.Mul(shares)
			v.LookThrough = &lookThrough
			totals.TotalLookThrough = totals.TotalLookThrough.Add(lookThrough)
		}
		valuations[i] = v
	}
	return valuations, totals, quotes
}
