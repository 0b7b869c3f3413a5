package workers

import (
	"context"
	"log/slog"
	"time"

	"flockwatch/internal/domain"
)

type FeedSource interface {
	RefreshFeed(ctx context.Context) ([]domain.CachedReport, error)
}

// FeedRefresher rebuilds the open-sightings cache on a fixed interval so the
// farmer feed stays warm between invalidations.
type FeedRefresher struct {
	source   FeedSource
	interval time.Duration
	logger   *slog.Logger
}

func NewFeedRefresher(source FeedSource, interval time.Duration, logger *slog.Logger) *FeedRefresher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &FeedRefresher{
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

func (w *FeedRefresher) Run(ctx context.Context) {
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("feed refresher stopped", slog.String("reason", ctx.Err().Error()))
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *FeedRefresher) refresh(ctx context.Context) {
	feed, err := w.source.RefreshFeed(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("feed refresh failed", slog.Any("error", err))
		}
		return
	}
	w.logger.Debug("feed refreshed", slog.Int("open_reports", len(feed)))
}
