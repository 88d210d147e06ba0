package controllers_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"portfolio-tracker/src/api/controllers"
	"portfolio-tracker/src/clients/tiingo/tiingotest"
	"portfolio-tracker/src/models"
	"portfolio-tracker/src/repositories"
	"portfolio-tracker/src/schemas"
	"portfolio-tracker/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{ err error }

func (r failingRepo) Create(context.Context, *models.Holding) error { return r.err }
func (r failingRepo) ListByOwner(context.Context, string) ([]models.Holding, error) {
	return nil, r.err
}
func (r failingRepo) DeleteByIDAndOwner(context.Context, int64, string) (int64, error) {
	return 0, r.err
}

func float(v float64) *float64 { return &v }

func newController(prices map[string]float64) (*controllers.Controller, *repositories.MemoryHoldingRepository, *tiingotest.MockClient) {
	repo := repositories.NewMemoryHoldingRepository()
	market := tiingotest.NewMockClient(prices)
	return controllers.NewController(repo, market), repo, market
}

func TestCreateHolding(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid holding for the owner", func(t *testing.T) {
		ctrl, repo, _ := newController(nil)

		h, err := ctrl.CreateHolding(ctx, "u1", schemas.CreateHoldingRequest{Symbol: "AAPL", Name: "Apple", Shares: float(10), AvgPrice: float(150)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), h.ID)
		assert.Equal(t, "u1", h.UserID)

		stored, err := repo.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "AAPL", stored[0].Symbol)
	})

	t.Run("zero average price is allowed", func(t *testing.T) {
		ctrl, _, _ := newController(nil)

		_, err := ctrl.CreateHolding(ctx, "u1", schemas.CreateHoldingRequest{Symbol: "GIFT", Shares: float(1), AvgPrice: float(0)})
		assert.NoError(t, err)
	})

	invalid := []struct {
		name  string
		req   schemas.CreateHoldingRequest
		field string
	}{
		{"missing symbol", schemas.CreateHoldingRequest{Shares: float(1), AvgPrice: float(1)}, "symbol"},
		{"blank symbol", schemas.CreateHoldingRequest{Symbol: "  ", Shares: float(1), AvgPrice: float(1)}, "symbol"},
		{"missing shares", schemas.CreateHoldingRequest{Symbol: "AAPL", AvgPrice: float(1)}, "shares"},
		{"zero shares", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(0), AvgPrice: float(1)}, "shares"},
		{"negative shares", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(-5), AvgPrice: float(1)}, "shares"},
		{"infinite shares", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(math.Inf(1)), AvgPrice: float(1)}, "shares"},
		{"missing avg_price", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(1)}, "avg_price"},
		{"negative avg_price", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(1), AvgPrice: float(-0.01)}, "avg_price"},
		{"NaN avg_price", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(1), AvgPrice: float(math.NaN())}, "avg_price"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, repo, _ := newController(nil)

			_, err := ctrl.CreateHolding(ctx, "u1", tc.req)
			require.ErrorIs(t, err, utils.ErrValidation)
			var verr *utils.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)

			stored, err := repo.ListByOwner(ctx, "u1")
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}

	t.Run("repository failure is a repository error", func(t *testing.T) {
		ctrl := controllers.NewController(failingRepo{err: errors.New("connection refused")}, tiingotest.NewMockClient(nil))

		_, err := ctrl.CreateHolding(ctx, "u1", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(1), AvgPrice: float(1)})
		assert.ErrorIs(t, err, utils.ErrRepository)
	})
}

func TestListHoldings(t *testing.T) {
	ctx := context.Background()

	t.Run("enriches holdings in creation order with one price request", func(t *testing.T) {
		ctrl, _, market := newController(map[string]float64{"AAPL": 191.24})
		for _, symbol := range []string{"AAPL", "MSFT", "AAPL"} {
			_, err := ctrl.CreateHolding(ctx, "u1", schemas.CreateHoldingRequest{Symbol: symbol, Shares: float(1), AvgPrice: float(100)})
			require.NoError(t, err)
		}

		holdings, err := ctrl.ListHoldings(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, holdings, 3)
		assert.Equal(t, "AAPL", holdings[0].Symbol)
		assert.Equal(t, 191.24, *holdings[0].CurrentPrice)
		assert.Nil(t, holdings[1].CurrentPrice)
		assert.Equal(t, 191.24, *holdings[2].CurrentPrice)

		require.Len(t, market.PriceCalls(), 1)
		assert.Equal(t, []string{"AAPL", "MSFT", "AAPL"}, market.PriceCalls()[0])
	})

	t.Run("listing twice gives the same result", func(t *testing.T) {
		ctrl, _, _ := newController(map[string]float64{"AAPL": 10})
		_, err := ctrl.CreateHolding(ctx, "u1", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(2), AvgPrice: float(5)})
		require.NoError(t, err)

		first, err := ctrl.ListHoldings(ctx, "u1")
		require.NoError(t, err)
		second, err := ctrl.ListHoldings(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("owner without holdings gets an empty list", func(t *testing.T) {
		ctrl, _, _ := newController(nil)

		holdings, err := ctrl.ListHoldings(ctx, "u2")
		require.NoError(t, err)
		assert.NotNil(t, holdings)
		assert.Empty(t, holdings)
	})

	t.Run("repository failure is a repository error", func(t *testing.T) {
		ctrl := controllers.NewController(failingRepo{err: errors.New("boom")}, tiingotest.NewMockClient(nil))

		_, err := ctrl.ListHoldings(ctx, "u1")
		assert.ErrorIs(t, err, utils.ErrRepository)
	})
}

func TestDeleteHolding(t *testing.T) {
	ctx := context.Background()
	ctrl, repo, _ := newController(nil)
	h, err := ctrl.CreateHolding(ctx, "u1", schemas.CreateHoldingRequest{Symbol: "AAPL", Shares: float(1), AvgPrice: float(1)})
	require.NoError(t, err)

	t.Run("foreign holding is not found and kept", func(t *testing.T) {
		err := ctrl.DeleteHolding(ctx, "u2", h.ID)
		assert.ErrorIs(t, err, utils.ErrNotFound)

		stored, err := repo.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("missing holding is not found", func(t *testing.T) {
		assert.ErrorIs(t, ctrl.DeleteHolding(ctx, "u1", 42), utils.ErrNotFound)
	})

	t.Run("owner deletes the holding", func(t *testing.T) {
		require.NoError(t, ctrl.DeleteHolding(ctx, "u1", h.ID))
		assert.ErrorIs(t, ctrl.DeleteHolding(ctx, "u1", h.ID), utils.ErrNotFound)
	})

	t.Run("repository failure is a repository error", func(t *testing.T) {
		ctrl := controllers.NewController(failingRepo{err: errors.New("boom")}, tiingotest.NewMockClient(nil))
		assert.ErrorIs(t, ctrl.DeleteHolding(ctx, "u1", 1), utils.ErrRepository)
	})
}
