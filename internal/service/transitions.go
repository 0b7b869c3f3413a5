package service

import (
	"fmt"
	"time"

	"flockwatch/internal/domain"
	"flockwatch/pkg/e"
)

// transitions lists every legal (status, action) pair. Anything missing is rejected.
var transitions = map[domain.ReportStatus]map[domain.Action]domain.ReportStatus{
	domain.ReportOpen: {
		domain.ActionMine:    domain.ReportClaimed,
		domain.ActionNotMine: domain.ReportDismissed,
	},
	domain.ReportClaimed: {
		domain.ActionResolved: domain.ReportResolved,
		domain.ActionNotMine:  domain.ReportOpen,
	},
}

// nextState computes the write for action against the observed report. It never writes.
func nextState(current *domain.Report, action domain.Action, farmerID string, now time.Time) (domain.ReportUpdate, error) {
	if current.Status == domain.ReportClaimed && (action == domain.ActionResolved || action == domain.ActionNotMine) {
		if current.ClaimedBy == nil || *current.ClaimedBy != farmerID {
			return domain.ReportUpdate{}, fmt.Errorf("%s on report claimed by another farmer: %w", action, e.ErrNotAuthorized)
		}
	}

	next, ok := transitions[current.Status][action]
	if !ok {
		return domain.ReportUpdate{}, fmt.Errorf("%s from %s: %w", action, current.Status, e.ErrInvalidTransition)
	}

	upd := domain.ReportUpdate{Status: next}
	switch next {
	case domain.ReportClaimed:
		upd.ClaimedBy = &farmerID
	case domain.ReportResolved:
		claimedBy := *current.ClaimedBy
		resolvedAt := now.UTC()
		upd.ClaimedBy = &claimedBy
		upd.ResolvedAt = &resolvedAt
	}
	return upd, nil
}
