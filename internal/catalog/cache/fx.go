package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewStore picks Redis when REDIS_ADDR is set and memory otherwise.
func NewStore(lc fx.Lifecycle, cfg config.Config, c clock.Clock, log *zap.Logger) Store {
	if cfg.Redis.Addr == "" {
		return NewMemoryStore(c)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unavailable, read cache misses will hit the catalog", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return NewRedisStore(client, cfg.AppName+":catalog")
}
