package repositories_test

import (
	"context"
	"testing"
	"time"

	"portfolio-tracker/migrations"
	"portfolio-tracker/src/config"
	"portfolio-tracker/src/database"
	"portfolio-tracker/src/models"
	"portfolio-tracker/src/repositories"
	"portfolio-tracker/src/utils"
	redis_utils "portfolio-tracker/src/utils/redis"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testHoldingRepository exercises the behaviour every driver shares. repo must be empty.
func testHoldingRepository(t *testing.T, repo repositories.HoldingRepository) {
	ctx := context.Background()

	t.Run("Create assigns id and creation time", func(t *testing.T) {
		h := &models.Holding{UserID: "u1", Symbol: "AAPL", Name: "Apple", Shares: 10, AvgPrice: 150}
		require.NoError(t, repo.Create(ctx, h))
		assert.NotZero(t, h.ID)
		assert.False(t, h.CreatedAt.IsZero())
	})

	t.Run("ListByOwner returns only the owner's holdings in creation order", func(t *testing.T) {
		msft := &models.Holding{UserID: "u1", Symbol: "MSFT", Shares: 2.5, AvgPrice: 300}
		other := &models.Holding{UserID: "u2", Symbol: "TSLA", Shares: 1, AvgPrice: 0}
		require.NoError(t, repo.Create(ctx, msft))
		require.NoError(t, repo.Create(ctx, other))

		holdings, err := repo.ListByOwner(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, holdings, 2)
		assert.Equal(t, "AAPL", holdings[0].Symbol)
		assert.Equal(t, "MSFT", holdings[1].Symbol)
		assert.Less(t, holdings[0].ID, holdings[1].ID)
		assert.Equal(t, 2.5, holdings[1].Shares)
		for _, h := range holdings {
			assert.Equal(t, "u1", h.UserID)
		}
	})

	t.Run("ListByOwner of an unknown owner is empty, not nil", func(t *testing.T) {
		holdings, err := repo.ListByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, holdings)
		assert.Empty(t, holdings)
	})

	t.Run("DeleteByIDAndOwner ignores foreign and missing ids", func(t *testing.T) {
		h := &models.Holding{UserID: "u3", Symbol: "NVDA", Shares: 1, AvgPrice: 100}
		require.NoError(t, repo.Create(ctx, h))

		n, err := repo.DeleteByIDAndOwner(ctx, h.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		n, err = repo.DeleteByIDAndOwner(ctx, 999999, "u3")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		holdings, err := repo.ListByOwner(ctx, "u3")
		require.NoError(t, err)
		assert.Len(t, holdings, 1)
	})

	t.Run("DeleteByIDAndOwner removes the owner's holding once", func(t *testing.T) {
		h := &models.Holding{UserID: "u4", Symbol: "AMZN", Shares: 3, AvgPrice: 120}
		require.NoError(t, repo.Create(ctx, h))

		n, err := repo.DeleteByIDAndOwner(ctx, h.ID, "u4")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.DeleteByIDAndOwner(ctx, h.ID, "u4")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		holdings, err := repo.ListByOwner(ctx, "u4")
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})
}

func TestMemoryHoldingRepository(t *testing.T) {
	testHoldingRepository(t, repositories.NewMemoryHoldingRepository())
}

func TestPostgresHoldingRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("portfolio"),
		postgres.WithUsername("portfolio"),
		postgres.WithPassword("portfolio"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.SetupDB(ctx, config.SQLConfig{ConnectionString: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Up(ctx, pool))
	// Applying twice is a no-op.
	require.NoError(t, migrations.Up(ctx, pool))

	testHoldingRepository(t, repositories.NewHoldingRepository(pool))
}

func TestRedisHoldingRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	handler := redis_utils.NewRedisHandlerFromClient(redis.NewClient(opts))
	t.Cleanup(func() { _ = handler.Close() })

	testHoldingRepository(t, repositories.NewHoldingRedisRepository(handler))
}

func TestOpenHoldingRepository(t *testing.T) {
	logger := utils.NewNopLogger()

	t.Run("memory driver", func(t *testing.T) {
		repo, closeFn, err := repositories.OpenHoldingRepository(context.Background(), config.PersistenceConfig{Driver: config.MemoryDriver}, logger)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &repositories.MemoryHoldingRepository{}, repo)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := repositories.OpenHoldingRepository(context.Background(), config.PersistenceConfig{Driver: "mongo"}, logger)
		assert.Error(t, err)
	})
}
