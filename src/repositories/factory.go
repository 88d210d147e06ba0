package repositories

import (
	"context"
	"fmt"

	"portfolio-tracker/migrations"
	"portfolio-tracker/src/config"
	"portfolio-tracker/src/database"
	redis_utils "portfolio-tracker/src/utils/redis"

	"github.com/sirupsen/logrus"
)

// OpenHoldingRepository connects the configured persistence driver. The returned
// func releases its connections.
func OpenHoldingRepository(ctx context.Context, cfg config.PersistenceConfig, logger *logrus.Logger) (HoldingRepository, func(), error) {
	switch cfg.Driver {
	case config.PostgresDriver:
		pool, err := database.SetupDB(ctx, cfg.SQL)
		if err != nil {
			return nil, nil, err
		}
		if cfg.RunMigrations {
			if err := migrations.Up(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			logger.Info("database migrations applied")
		}
		logger.WithField("driver", cfg.Driver).Info("holdings repository ready")
		return NewHoldingRepository(pool), pool.Close, nil

	case config.RedisDriver:
		handler, err := redis_utils.NewRedisHandler(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("driver", cfg.Driver).Info("holdings repository ready")
		return NewHoldingRedisRepository(handler), func() { _ = handler.Close() }, nil

	case config.MemoryDriver:
		logger.WithField("driver", cfg.Driver).Warn("holdings are kept in memory and lost on restart")
		return NewMemoryHoldingRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown persistence driver %q", cfg.Driver)
}
