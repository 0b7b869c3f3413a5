package service

import (
	"context"
	"time"

	"flockwatch/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// ReportStore is the single source of truth for report state.
// CompareAndSwap must be atomic per report id.
type ReportStore interface {
	Create(ctx context.Context, report *domain.Report) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	CompareAndSwap(ctx context.Context, id uuid.UUID, expected domain.Precondition, upd domain.ReportUpdate) (*domain.Report, error)
	List(ctx context.Context, f domain.ListFilter) ([]*domain.Report, int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.ReportEvent) error
}

type EventSource interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.ReportEvent, error)
}

// FeedCache holds the open-sightings feed. Every Invalidate bumps a generation counter;
// SetOpen writes only if the generation still equals gen and returns e.ErrStaleFeed otherwise.
type FeedCache interface {
	GetOpen(ctx context.Context) ([]domain.CachedReport, error)
	Generation(ctx context.Context) (int64, error)
	SetOpen(ctx context.Context, reports []domain.CachedReport, ttl time.Duration, gen int64) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	Resolver *ClaimResolver
	Reports  *ReportService
}

func NewService(resolver *ClaimResolver, reports *ReportService) *Service {
	return &Service{
		Resolver: resolver,
		Reports:  reports,
	}
}
