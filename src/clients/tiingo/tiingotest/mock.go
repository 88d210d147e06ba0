// Package tiingotest provides an in-memory market data client for tests.
package tiingotest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"portfolio-tracker/src/clients/tiingo"
	"portfolio-tracker/src/schemas"
	"portfolio-tracker/src/utils"
)

// MockClient serves fixed quotes, news and search results and records the symbols
// it was asked for.
type MockClient struct {
	Prices       map[string]float64
	News         []tiingo.NewsItem
	SearchResult json.RawMessage
	NewsErr      error
	SearchErr    error

	mu          sync.Mutex
	priceCalls  [][]string
	newsCalls   [][]string
	searchCalls []string
}

var _ tiingo.TiingoServiceClientI = (*MockClient)(nil)

func NewMockClient(prices map[string]float64) *MockClient {
	return &MockClient{Prices: prices}
}

func (m *MockClient) FetchPrices(_ context.Context, symbols []string) map[string]schemas.PriceQuote {
	m.mu.Lock()
	m.priceCalls = append(m.priceCalls, symbols)
	m.mu.Unlock()

	quotes := map[string]schemas.PriceQuote{}
	for _, s := range symbols {
		last, ok := m.Prices[s]
		if !ok {
			continue
		}
		raw, _ := json.Marshal(map[string]any{"ticker": s, "last": last})
		quotes[s] = schemas.PriceQuote{Ticker: s, Last: &last, Raw: raw}
	}
	return quotes
}

func (m *MockClient) FetchNews(_ context.Context, symbols []string) ([]tiingo.NewsItem, error) {
	m.mu.Lock()
	m.newsCalls = append(m.newsCalls, symbols)
	m.mu.Unlock()

	if m.NewsErr != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDataSource, m.NewsErr)
	}
	return m.News, nil
}

func (m *MockClient) Search(_ context.Context, query string) (json.RawMessage, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, query)
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDataSource, m.SearchErr)
	}
	return m.SearchResult, nil
}

// PriceCalls returns the symbol lists passed to FetchPrices.
func (m *MockClient) PriceCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.priceCalls...)
}

// NewsCalls returns the symbol lists passed to FetchNews.
func (m *MockClient) NewsCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.newsCalls...)
}

// SearchCalls returns the queries passed to Search.
func (m *MockClient) SearchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searchCalls...)
}
