package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"flockwatch/internal/domain"
	"flockwatch/pkg/e"

	goredis "github.com/redis/go-redis/v9"
)

// FeedCache holds the open-sightings feed. A nil slice from GetOpen means a miss.
// genKey counts invalidations; writes made under an older count are refused.
type FeedCache struct {
	client *goredis.Client
	key    string
	genKey string
}

func NewFeedCache(r *Redis) *FeedCache {
	return &FeedCache{
		client: r.Client,
		key:    r.Key("reports", "open"),
		genKey: r.Key("reports", "open", "gen"),
	}
}

func (c *FeedCache) GetOpen(ctx context.Context) ([]domain.CachedReport, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	reports := []domain.CachedReport{}
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, err
	}

	return reports, nil
}

func (c *FeedCache) Generation(ctx context.Context) (int64, error) {
	return generation(ctx, c.client, c.genKey)
}

// SetOpen stores reports only while the generation still equals gen.
func (c *FeedCache) SetOpen(ctx context.Context, reports []domain.CachedReport, ttl time.Duration, gen int64) error {
	if reports == nil {
		reports = []domain.CachedReport{}
	}
	b, err := json.Marshal(reports)
	if err != nil {
		return err
	}

	err = c.client.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := generation(ctx, tx, c.genKey)
		if err != nil {
			return err
		}
		if cur != gen {
			return e.ErrStaleFeed
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, c.key, b, ttl)
			return nil
		})
		return err
	}, c.genKey)
	if errors.Is(err, goredis.TxFailedErr) {
		return e.ErrStaleFeed
	}
	return err
}

// Invalidate drops the feed and bumps the generation in one transaction.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func generation(ctx context.Context, cmd getter, key string) (int64, error) {
	gen, err := cmd.Get(ctx, key).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return gen, err
}
