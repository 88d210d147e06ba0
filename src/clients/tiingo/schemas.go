package tiingo

import "encoding/json"

// iexQuote is the part of an IEX top-of-book record the adapter reads. The full
// record is kept as raw JSON.
type iexQuote struct {
	Ticker string   `json:"ticker"`
	Last   *float64 `json:"last"`
}

// NewsItem is a provider news record passed through unchanged.
type NewsItem = json.RawMessage
