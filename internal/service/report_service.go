package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"flockwatch/internal/domain"
	"flockwatch/pkg/e"
	"flockwatch/pkg/validator"

	"github.com/google/uuid"
)

// feedSize caps how many open sightings the cached feed carries.
const feedSize = 100

// ReportService covers intake and reads. It never changes report status.
type ReportService struct {
	store   ReportStore
	feed    FeedCache
	logger  *slog.Logger
	feedTTL time.Duration
}

func NewReportService(store ReportStore, feed FeedCache, logger *slog.Logger, feedTTL time.Duration) *ReportService {
	if feed == nil {
		feed = NopFeedCache{}
	}
	if feedTTL <= 0 {
		feedTTL = 2 * time.Minute
	}
	return &ReportService{
		store:   store,
		feed:    feed,
		logger:  logger,
		feedTTL: feedTTL,
	}
}

func (s *ReportService) Create(ctx context.Context, req domain.CreateReportRequest) (uuid.UUID, error) {
	if !validator.ValidLat(req.Lat) || !validator.ValidLng(req.Lng) {
		s.logger.Warn("invalid coordinates", slog.Float64("lat", req.Lat), slog.Float64("lng", req.Lng))
		return uuid.Nil, e.ErrInvalidCoordinates
	}

	report := &domain.Report{
		ID:          uuid.New(),
		Location:    domain.Location{Lat: req.Lat, Lng: req.Lng},
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.store.Create(ctx, report); err != nil {
		return uuid.Nil, err
	}

	if err := s.feed.Invalidate(ctx); err != nil {
		s.logger.Error("invalidate open feed failed", slog.Any("error", err))
	}

	s.logger.Info("report created", slog.String("id", report.ID.String()))
	return report.ID, nil
}

func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	return s.store.Get(ctx, id)
}

func (s *ReportService) List(ctx context.Context, f domain.ListFilter) ([]*domain.Report, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("status %q: %w", f.Status, e.ErrInvalidInput)
	}
	return s.store.List(ctx, f)
}

// OpenFeed serves the open sightings from cache, rebuilding it on a miss.
func (s *ReportService) OpenFeed(ctx context.Context) ([]domain.CachedReport, error) {
	cached, err := s.feed.GetOpen(ctx)
	if err != nil {
		s.logger.Warn("feed cache read failed, falling back to store", slog.Any("error", err))
	} else if cached != nil {
		s.logger.Debug("feed cache hit", slog.Int("reports", len(cached)))
		return cached, nil
	}

	return s.RefreshFeed(ctx)
}

// RefreshFeed rebuilds the feed from the store. The cache is written only if no
// invalidation happened since the generation was read, so a transition that lands
// between the store read and the cache write never gets overwritten by the older list.
func (s *ReportService) RefreshFeed(ctx context.Context) ([]domain.CachedReport, error) {
	gen, genErr := s.feed.Generation(ctx)
	if genErr != nil {
		s.logger.Warn("feed generation read failed, cache not refreshed", slog.Any("error", genErr))
	}

	open, _, err := s.store.List(ctx, domain.ListFilter{Status: domain.ReportOpen, Page: 1, Limit: feedSize})
	if err != nil {
		return nil, err
	}

	feed := domain.ToCachedReports(open)
	if genErr != nil {
		return feed, nil
	}

	switch err := s.feed.SetOpen(ctx, feed, s.feedTTL, gen); {
	case errors.Is(err, e.ErrStaleFeed):
		s.logger.Debug("feed changed during refresh, cache write skipped", slog.Int64("generation", gen))
	case err != nil:
		s.logger.Error("feed cache write failed", slog.Any("error", err))
	}
	return feed, nil
}
