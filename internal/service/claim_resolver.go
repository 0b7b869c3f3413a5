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

	"github.com/google/uuid"
)

// maxAttempts bounds the read-plan-write loop: one try plus one immediate retry on conflict.
const maxAttempts = 2

// ClaimResolver is the only mutator of report status. It keeps no state between calls.
type ClaimResolver struct {
	store  ReportStore
	events EventPublisher
	feed   FeedCache
	logger *slog.Logger
	now    func() time.Time
}

func NewClaimResolver(store ReportStore, events EventPublisher, feed FeedCache, logger *slog.Logger) *ClaimResolver {
	if events == nil {
		events = NopEventPublisher{}
	}
	if feed == nil {
		feed = NopFeedCache{}
	}
	return &ClaimResolver{
		store:  store,
		events: events,
		feed:   feed,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for resolved_at and event timestamps.
func (r *ClaimResolver) WithClock(now func() time.Time) *ClaimResolver {
	r.now = now
	return r
}

func (r *ClaimResolver) Apply(ctx context.Context, req domain.ActionRequest) (domain.ActionResult, error) {
	const op = "service.ClaimResolver.Apply"

	action, ok := domain.ParseAction(req.Action)
	if !ok {
		return domain.ActionResult{}, fmt.Errorf("%s: action %q: %w", op, req.Action, e.ErrInvalidAction)
	}

	farmerID := strings.TrimSpace(req.FarmerID)
	if farmerID == "" {
		return domain.ActionResult{}, fmt.Errorf("%s: empty farmer_id: %w", op, e.ErrInvalidInput)
	}

	reportID, err := uuid.Parse(req.ReportID)
	if err != nil {
		return domain.ActionResult{}, fmt.Errorf("%s: report %q: %w", op, req.ReportID, e.ErrNotFound)
	}

	l := r.logger.With(
		slog.String("report_id", reportID.String()),
		slog.String("action", string(action)),
		slog.String("farmer_id", farmerID),
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		current, err := r.store.Get(ctx, reportID)
		if err != nil {
			return domain.ActionResult{}, fmt.Errorf("%s: %w", op, err)
		}

		upd, err := nextState(current, action, farmerID, r.now())
		if err != nil {
			l.Info("action rejected", slog.String("status", string(current.Status)), slog.String("reason", err.Error()))
			return domain.ActionResult{}, fmt.Errorf("%s: %w", op, err)
		}

		expected := domain.Precondition{Status: current.Status, Revision: current.Revision}
		updated, err := r.store.CompareAndSwap(ctx, reportID, expected, upd)
		if errors.Is(err, e.ErrConflict) {
			l.Warn("compare-and-swap lost race", slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return domain.ActionResult{}, fmt.Errorf("%s: %w", op, err)
		}

		l.Info("report transitioned",
			slog.String("from", string(current.Status)),
			slog.String("to", string(updated.Status)),
			slog.Int64("revision", updated.Revision),
		)
		r.afterTransition(ctx, l, current.Status, updated, action, farmerID)

		return domain.ActionResult{
			Success:   true,
			ReportID:  updated.ID,
			NewStatus: updated.Status,
			Action:    action,
			FarmerID:  farmerID,
			Report:    updated,
		}, nil
	}

	return domain.ActionResult{}, fmt.Errorf("%s: gave up after %d attempts: %w", op, maxAttempts, e.ErrConflict)
}

// afterTransition runs best-effort side effects. Failures are logged; the write already stands.
func (r *ClaimResolver) afterTransition(ctx context.Context, l *slog.Logger, from domain.ReportStatus, updated *domain.Report, action domain.Action, farmerID string) {
	ev := domain.ReportEvent{
		ReportID:   updated.ID,
		Action:     action,
		FarmerID:   farmerID,
		From:       from,
		To:         updated.Status,
		OccurredAt: r.now(),
	}
	if err := r.events.Publish(ctx, ev); err != nil {
		l.Error("publish report event failed", slog.Any("error", err))
	}

	if from == domain.ReportOpen || updated.Status == domain.ReportOpen {
		if err := r.feed.Invalidate(ctx); err != nil {
			l.Error("invalidate open feed failed", slog.Any("error", err))
		}
	}
}
