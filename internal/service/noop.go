package service

import (
	"context"
	"time"

	"flockwatch/internal/domain"
)

// NopEventPublisher drops events. Used when Redis is disabled.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, domain.ReportEvent) error { return nil }

// NopFeedCache always misses, so reads fall through to the store.
type NopFeedCache struct{}

func (NopFeedCache) GetOpen(context.Context) ([]domain.CachedReport, error) { return nil, nil }

func (NopFeedCache) Generation(context.Context) (int64, error) { return 0, nil }

func (NopFeedCache) SetOpen(context.Context, []domain.CachedReport, time.Duration, int64) error {
	return nil
}

func (NopFeedCache) Invalidate(context.Context) error { return nil }
