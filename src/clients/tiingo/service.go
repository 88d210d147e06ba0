package tiingo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio-tracker/src/config"
	"portfolio-tracker/src/schemas"
	"portfolio-tracker/src/utils"
	"portfolio-tracker/src/utils/requests"

	"github.com/sirupsen/logrus"
)

type TiingoServiceClientI interface {
	FetchPrices(ctx context.Context, symbols []string) map[string]schemas.PriceQuote
	FetchNews(ctx context.Context, symbols []string) ([]NewsItem, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

// TiingoServiceClient reads quotes, news and symbol search results from the Tiingo REST API.
// Every call is a single attempt; nothing is cached.
type TiingoServiceClient struct {
	API     *requests.ExternalAPIService
	BaseURL string
	Timeout time.Duration
	Logger  *logrus.Logger
}

// NewClient creates a new instance of TiingoServiceClient. httpClient may be nil.
func NewClient(cfg config.TiingoConfig, httpClient *http.Client, logger *logrus.Logger) *TiingoServiceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &TiingoServiceClient{
		API:     requests.NewExternalAPIService(httpClient, timeout, "Token", cfg.APIKey),
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Timeout: timeout,
		Logger:  logger,
	}
}

// FetchPrices returns the latest IEX quote per ticker in one batched request. Any
// provider failure yields an empty map so callers can still serve holdings.
func (c *TiingoServiceClient) FetchPrices(ctx context.Context, symbols []string) map[string]schemas.PriceQuote {
	prices := map[string]schemas.PriceQuote{}
	tickers := uniqueSymbols(symbols)
	if len(tickers) == 0 {
		return prices
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("tickers", strings.Join(tickers, ","))

	body, err := c.API.GetJSON(ctx, c.BaseURL+"/iex/", params)
	if err != nil {
		c.Logger.WithError(err).WithField("tickers", len(tickers)).Warn("price fetch failed, serving holdings without prices")
		return prices
	}

	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		c.Logger.WithError(err).Warn("price response is not a list, serving holdings without prices")
		return prices
	}

	for _, record := range records {
		var quote iexQuote
		if err := json.Unmarshal(record, &quote); err != nil || quote.Ticker == "" {
			continue
		}
		prices[quote.Ticker] = schemas.PriceQuote{
			Ticker: quote.Ticker,
			Last:   quote.Last,
			Raw:    record,
		}
	}
	return prices
}

// FetchNews returns news articles for the given tickers in one batched request.
func (c *TiingoServiceClient) FetchNews(ctx context.Context, symbols []string) ([]NewsItem, error) {
	tickers := uniqueSymbols(symbols)
	if len(tickers) == 0 {
		return []NewsItem{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("tickers", strings.Join(tickers, ","))

	body, err := c.API.GetJSON(ctx, c.BaseURL+"/tiingo/news", params)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch news: %v", utils.ErrDataSource, err)
	}

	news := []NewsItem{}
	if err := json.Unmarshal(body, &news); err != nil {
		return nil, fmt.Errorf("%w: decode news: %v", utils.ErrDataSource, err)
	}
	return news, nil
}

// Search looks up tickers and company names matching query. The provider response
// is returned as is.
func (c *TiingoServiceClient) Search(ctx context.Context, query string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)

	body, err := c.API.GetJSON(ctx, c.BaseURL+"/tiingo/utilities/search", params)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", utils.ErrDataSource, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: search returned invalid JSON", utils.ErrDataSource)
	}
	return json.RawMessage(body), nil
}

// uniqueSymbols drops empty and repeated symbols, keeping first-seen order.
func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
