package services

import (
	"portfolio-tracker/src/models"
	"portfolio-tracker/src/schemas"

	"github.com/shopspring/decimal"
)

// MergeHoldings pairs each holding with the quote of its exact symbol. Output order
// matches holdings; holdings without a usable quote keep null market fields.
func MergeHoldings(holdings []models.Holding, prices map[string]schemas.PriceQuote) []schemas.EnrichedHolding {
	enriched := make([]schemas.EnrichedHolding, 0, len(holdings))
	for _, h := range holdings {
		item := schemas.EnrichedHolding{
			ID:        h.ID,
			UserID:    h.UserID,
			Symbol:    h.Symbol,
			Name:      h.Name,
			Shares:    h.Shares,
			AvgPrice:  h.AvgPrice,
			CreatedAt: h.CreatedAt,
		}
		if quote, ok := prices[h.Symbol]; ok {
			item.MarketData = quote.Raw
			if quote.Last != nil {
				last := *quote.Last
				item.CurrentPrice = &last
				item.MarketValue, item.UnrealizedGain = valuation(h, last)
			}
		}
		enriched = append(enriched, item)
	}
	return enriched
}

func valuation(h models.Holding, last float64) (*float64, *float64) {
	shares := decimal.NewFromFloat(h.Shares)
	value := shares.Mul(decimal.NewFromFloat(last))
	gain := value.Sub(shares.Mul(decimal.NewFromFloat(h.AvgPrice)))

	marketValue, _ := value.Round(2).Float64()
	unrealizedGain, _ := gain.Round(2).Float64()
	return &marketValue, &unrealizedGain
}
