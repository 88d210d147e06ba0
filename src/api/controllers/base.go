package controllers

import (
	"portfolio-tracker/src/clients/tiingo"
	"portfolio-tracker/src/repositories"
)

type IController interface {
	HoldingsControllerI
	MarketControllerI
}

type Controller struct {
	*HoldingsController
	*MarketController
}

func NewController(repo repositories.HoldingRepository, market tiingo.TiingoServiceClientI) *Controller {
	return &Controller{
		HoldingsController: NewHoldingsController(repo, market),
		MarketController:   NewMarketController(repo, market),
	}
}
