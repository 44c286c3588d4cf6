package quote

// summaryResponse maps the raw JSON of the Yahoo Finance quoteSummary API.
// Numeric values arrive as {"raw": n, "fmt": "..."} objects; only the raw
// value is read. Every field is optional in practice: delisted codes,
// thin foreign tickers and rate-limited responses all come back with holes.
type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price struct {
		LongName           string   `json:"longName"`
		ShortName          string   `json:"shortName"`
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
	} `json:"price"`
	SummaryDetail struct {
		TrailingPE    rawValue `json:"trailingPE"`
		DividendYield rawValue `json:"dividendYield"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		PriceToBook rawValue `json:"priceToBook"`
		TrailingEps rawValue `json:"trailingEps"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		ReturnOnEquity rawValue `json:"returnOnEquity"`
	} `json:"financialData"`
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}
