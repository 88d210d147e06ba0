package redis_utils

import (
	"context"
	"crypto/tls"
	"fmt"

	"portfolio-tracker/src/config"

	"github.com/redis/go-redis/v9"
)

// RedisHandler encapsulates the Redis client used by the redis persistence driver.
type RedisHandler struct {
	client *redis.Client
}

// NewRedisHandler initializes a new Redis handler and checks the connection.
func NewRedisHandler(ctx context.Context, cfg config.RedisConfig) (*RedisHandler, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Host + ":" + cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.Database,
		}
	}
	if cfg.TLS && opts.TLSConfig == nil {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisHandler{client: client}, nil
}

// NewRedisHandlerFromClient wraps an existing client.
func NewRedisHandlerFromClient(client *redis.Client) *RedisHandler {
	return &RedisHandler{client: client}
}

// Client returns the underlying go-redis client.
func (r *RedisHandler) Client() *redis.Client {
	return r.client
}

// Close closes the Redis client connection.
func (r *RedisHandler) Close() error {
	return r.client.Close()
}
