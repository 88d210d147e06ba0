package schemas

import (
	"encoding/json"
	"time"
)

// PriceQuote is the latest quote the market provider returned for one ticker.
type PriceQuote struct {
	Ticker string
	Last   *float64
	Raw    json.RawMessage
}

type CreateHoldingRequest struct {
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Shares   *float64 `json:"shares"`
	AvgPrice *float64 `json:"avg_price"`
}

type CreateHoldingResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// EnrichedHolding is a stored holding plus live market data. Market fields are
// null, never omitted, when no quote matched the holding's symbol.
type EnrichedHolding struct {
	ID             int64           `json:"id"`
	UserID         string          `json:"user_id"`
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	Shares         float64         `json:"shares"`
	AvgPrice       float64         `json:"avg_price"`
	CreatedAt      time.Time       `json:"created_at"`
	CurrentPrice   *float64        `json:"currentPrice"`
	MarketValue    *float64        `json:"marketValue"`
	UnrealizedGain *float64        `json:"unrealizedGain"`
	MarketData     json.RawMessage `json:"marketData"`
}

type PrivateResponse struct {
	Message string         `json:"message"`
	User    map[string]any `json:"user"`
}
