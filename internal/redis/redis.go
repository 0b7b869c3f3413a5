package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"flockwatch/internal/config"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 5 * time.Second

// Redis wraps the shared client. Every key the service writes is namespaced by prefix.
type Redis struct {
	Client *redis.Client
	prefix string
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis ping failed", slog.String("addr", cfg.Addr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	logger.Info("connected to redis", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB))

	return &Redis{Client: rdb, prefix: cfg.KeyPrefix}, nil
}

// Key joins parts with ':' under the configured prefix.
func (r *Redis) Key(parts ...string) string {
	if r.prefix == "" {
		return strings.Join(parts, ":")
	}
	return r.prefix + ":" + strings.Join(parts, ":")
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
