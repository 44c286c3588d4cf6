package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/model"
)

// FakeQuoteProvider serves canned quotes keyed by instrument code. Codes with
// no canned quote get the empty quote, matching how the real provider
// degrades on failure.
type FakeQuoteProvider struct {
	mu      sync.Mutex
	quotes  map[string]model.Quote
	lookups []string
}

// NewFakeQuoteProvider creates an empty provider.
func NewFakeQuoteProvider() *FakeQuoteProvider {
	return &FakeQuoteProvider{quotes: make(map[string]model.Quote)}
}

// SetQuote cans a quote for a code.
func (p *FakeQuoteProvider) SetQuote(code string, quote model.Quote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes[code] = quote
}

// SetPrice cans a quote carrying only a price.
func (p *FakeQuoteProvider) SetPrice(code string, price decimal.Decimal) {
	p.SetQuote(code, model.Quote{Price: &price})
}

// Lookup returns the canned quote for code, or the empty quote.
func (p *FakeQuoteProvider) Lookup(_ context.Context, code string) model.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lookups = append(p.lookups, code)
	return p.quotes[code]
}

// Lookups returns the codes looked up so far, in call order.
func (p *FakeQuoteProvider) Lookups() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lookups...)
}
