package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/breadthpulse/config"
)

const redisPingTimeout = 2 * time.Second

// InitRedis connects the universe cache to Redis.
//
// Behavior:
//   - Returns (nil, nil) when Redis is disabled; callers fall back to the in-process memo.
//   - Pings the server once so misconfiguration fails at startup.
func InitRedis(cfg config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rdb := redisOpener(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// redisOpener is an indirection for unit testing; defaults to redis.NewClient.
var redisOpener = redis.NewClient
