package controllers

import (
	"context"
	"fmt"
	"math"
	"strings"

	"portfolio-tracker/src/clients/tiingo"
	"portfolio-tracker/src/models"
	"portfolio-tracker/src/repositories"
	"portfolio-tracker/src/schemas"
	"portfolio-tracker/src/services"
	"portfolio-tracker/src/utils"
)

type HoldingsControllerI interface {
	ListHoldings(ctx context.Context, owner string) ([]schemas.EnrichedHolding, error)
	CreateHolding(ctx context.Context, owner string, req schemas.CreateHoldingRequest) (*models.Holding, error)
	DeleteHolding(ctx context.Context, owner string, id int64) error
}

type HoldingsController struct {
	Repo   repositories.HoldingRepository
	Market tiingo.TiingoServiceClientI
}

func NewHoldingsController(repo repositories.HoldingRepository, market tiingo.TiingoServiceClientI) *HoldingsController {
	return &HoldingsController{Repo: repo, Market: market}
}

// ListHoldings returns the owner's holdings enriched with current prices. Price
// lookup failures leave the market fields null.
func (c *HoldingsController) ListHoldings(ctx context.Context, owner string) ([]schemas.EnrichedHolding, error) {
	holdings, err := c.Repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list holdings: %v", utils.ErrRepository, err)
	}
	prices := c.Market.FetchPrices(ctx, symbolsOf(holdings))
	return services.MergeHoldings(holdings, prices), nil
}

func (c *HoldingsController) CreateHolding(ctx context.Context, owner string, req schemas.CreateHoldingRequest) (*models.Holding, error) {
	if err := validateCreateHolding(req); err != nil {
		return nil, err
	}
	holding := &models.Holding{
		UserID:   owner,
		Symbol:   req.Symbol,
		Name:     req.Name,
		Shares:   *req.Shares,
		AvgPrice: *req.AvgPrice,
	}
	if err := c.Repo.Create(ctx, holding); err != nil {
		return nil, fmt.Errorf("%w: create holding: %v", utils.ErrRepository, err)
	}
	return holding, nil
}

// DeleteHolding removes a holding the owner owns. A foreign id is reported exactly
// like a missing one.
func (c *HoldingsController) DeleteHolding(ctx context.Context, owner string, id int64) error {
	removed, err := c.Repo.DeleteByIDAndOwner(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("%w: delete holding: %v", utils.ErrRepository, err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: holding %d", utils.ErrNotFound, id)
	}
	return nil
}

func validateCreateHolding(req schemas.CreateHoldingRequest) error {
	if strings.TrimSpace(req.Symbol) == "" {
		return utils.NewValidationError("symbol", "symbol is required")
	}
	if req.Shares == nil {
		return utils.NewValidationError("shares", "shares is required")
	}
	if math.IsNaN(*req.Shares) || math.IsInf(*req.Shares, 0) || *req.Shares <= 0 {
		return utils.NewValidationError("shares", "shares must be a positive number")
	}
	if req.AvgPrice == nil {
		return utils.NewValidationError("avg_price", "avg_price is required")
	}
	if math.IsNaN(*req.AvgPrice) || math.IsInf(*req.AvgPrice, 0) || *req.AvgPrice < 0 {
		return utils.NewValidationError("avg_price", "avg_price must be a non-negative number")
	}
	return nil
}

func symbolsOf(holdings []models.Holding) []string {
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}
