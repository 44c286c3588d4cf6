// Package quote provides the market-data collaborator: point-in-time quotes
// for an instrument, fetched from the Yahoo Finance quoteSummary API.
//
// Lookups never fail from the caller's point of view. Rate limiting, network
// errors and unknown symbols all degrade to the empty quote; the surrounding
// operation continues with missing fields instead of aborting.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabutools/kabu-ledger/internal/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches quotes with a TTL cache in front of the API. The cache also
// holds empty quotes so a failing code is not re-fetched on every row of a
// refresh pass.
type Client struct {
	httpClient *http.Client
	baseURL    string
	ttl        time.Duration

	mu    sync.RWMutex
	cache map[string]cachedQuote
}

type cachedQuote struct {
	quote   model.Quote
	fetched time.Time
}

// NewClient creates a quote client with default HTTP settings and the given
// cache TTL (non-positive disables caching).
func NewClient(ttl time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		ttl:        ttl,
		cache:      make(map[string]cachedQuote),
	}
}

// NewClientWithBaseURL is NewClient pointed at a different endpoint, used by
// tests.
func NewClientWithBaseURL(baseURL string, ttl time.Duration) *Client {
	c := NewClient(ttl)
	c.baseURL = baseURL
	return c
}

// Lookup returns the quote for a canonical instrument code. It never returns
// an error: anything that goes wrong collapses to the empty quote.
func (c *Client) Lookup(ctx context.Context, code string) model.Quote {
	if c.ttl > 0 {
		c.mu.RLock()
		if cached, ok := c.cache[code]; ok && time.Since(cached.fetched) < c.ttl {
			c.mu.RUnlock()
			return cached.quote
		}
		c.mu.RUnlock()
	}

	quote := c.fetch(ctx, code)

	if c.ttl > 0 {
		c.mu.Lock()
		c.cache[code] = cachedQuote{quote: quote, fetched: time.Now()}
		c.mu.Unlock()
	}
	return quote
}

func (c *Client) fetch(ctx context.Context, code string) model.Quote {
	url := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,defaultKeyStatistics,financialData",
		c.baseURL, code,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Quote{}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Quote{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Quote{}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Quote{}
	}

	var response summaryResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return model.Quote{}
	}
	if response.QuoteSummary.Error != nil || len(response.QuoteSummary.Result) == 0 {
		return model.Quote{}
	}

	return toQuote(response.QuoteSummary.Result[0])
}

func toQuote(r summaryResult) model.Quote {
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}

	quote := model.Quote{
		DisplayName:   name,
		Price:         asDecimal(r.Price.RegularMarketPrice),
		PER:           asDecimal(r.SummaryDetail.TrailingPE),
		PBR:           asDecimal(r.DefaultKeyStatistics.PriceToBook),
		DividendYield: asDecimal(r.SummaryDetail.DividendYield),
		EPS:           asDecimal(r.DefaultKeyStatistics.TrailingEps),
	}
	// Yahoo reports return on equity as a fraction; the sheets show percent.
	if roe := asDecimal(r.FinancialData.ReturnOnEquity); roe != nil {
		pct := roe.Mul(decimal.NewFromInt(100))
		quote.ROEPct = &pct
	}
	return quote
}

func asDecimal(v rawValue) *decimal.Decimal {
	if v.Raw == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v.Raw)
	return &d
}
