package controllers

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-tracker/src/clients/tiingo"
	"portfolio-tracker/src/repositories"
	"portfolio-tracker/src/utils"
)

type MarketControllerI interface {
	GetNews(ctx context.Context, owner string) ([]tiingo.NewsItem, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

type MarketController struct {
	Repo   repositories.HoldingRepository
	Market tiingo.TiingoServiceClientI
}

func NewMarketController(repo repositories.HoldingRepository, market tiingo.TiingoServiceClientI) *MarketController {
	return &MarketController{Repo: repo, Market: market}
}

// GetNews returns provider news for the symbols the owner holds.
func (c *MarketController) GetNews(ctx context.Context, owner string) ([]tiingo.NewsItem, error) {
	holdings, err := c.Repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list holdings: %v", utils.ErrRepository, err)
	}
	news, err := c.Market.FetchNews(ctx, symbolsOf(holdings))
	if err != nil {
		return nil, err
	}
	if news == nil {
		news = []tiingo.NewsItem{}
	}
	return news, nil
}

func (c *MarketController) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if query == "" {
		return nil, utils.NewValidationError("query", "Query parameter is required")
	}
	return c.Market.Search(ctx, query)
}
