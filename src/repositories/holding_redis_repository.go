package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"portfolio-tracker/src/models"
	redis_utils "portfolio-tracker/src/utils/redis"

	"github.com/redis/go-redis/v9"
)

const (
	holdingSequenceKey = "holdings:next_id"
	holdingKeyPrefix   = "holding:"
	ownerIndexPrefix   = "holdings:owner:"
)

// holdingRedisRepo keeps each holding as a JSON value and indexes ids per owner
// in a sorted set scored by id.
type holdingRedisRepo struct {
	client *redis.Client
}

func NewHoldingRedisRepository(handler *redis_utils.RedisHandler) HoldingRepository {
	return &holdingRedisRepo{client: handler.Client()}
}

func holdingKey(id int64) string {
	return fmt.Sprintf("%s%d", holdingKeyPrefix, id)
}

func ownerKey(owner string) string {
	return ownerIndexPrefix + owner
}

func (r *holdingRedisRepo) Create(ctx context.Context, h *models.Holding) error {
	id, err := r.client.Incr(ctx, holdingSequenceKey).Result()
	if err != nil {
		return err
	}
	h.ID = id
	h.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(h)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, holdingKey(id), payload, 0)
		pipe.ZAdd(ctx, ownerKey(h.UserID), redis.Z{Score: float64(id), Member: id})
		return nil
	})
	return err
}

func (r *holdingRedisRepo) ListByOwner(ctx context.Context, owner string) ([]models.Holding, error) {
	ids, err := r.client.ZRange(ctx, ownerKey(owner), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	holdings := make([]models.Holding, 0, len(ids))
	if len(ids) == 0 {
		return holdings, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = holdingKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var h models.Holding
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func (r *holdingRedisRepo) DeleteByIDAndOwner(ctx context.Context, id int64, owner string) (int64, error) {
	removed, err := r.client.ZRem(ctx, ownerKey(owner), id).Result()
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, nil
	}
	if err := r.client.Del(ctx, holdingKey(id)).Err(); err != nil {
		return 0, err
	}
	return removed, nil
}
