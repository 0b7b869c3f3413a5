package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"flockwatch/internal/domain"
	"flockwatch/pkg/e"

	"github.com/google/uuid"
)

// Reports is an in-process report store. Every method holds the lock for the
// whole read-check-write, so CompareAndSwap is atomic for all callers.
type Reports struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*domain.Report
	now     func() time.Time
}

func NewReports() *Reports {
	return &Reports{
		reports: make(map[uuid.UUID]*domain.Report),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Reports) Create(_ context.Context, report *domain.Report) error {
	const op = "memory.Report.Create"

	if report == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = s.now()
	}
	report.Status = domain.ReportOpen
	report.ClaimedBy = nil
	report.ResolvedAt = nil
	report.Revision = 0
	report.UpdatedAt = report.ReportedAt

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[report.ID]; ok {
		return fmt.Errorf("%s: %w", op, e.ErrUniqueViolation)
	}
	s.reports[report.ID] = report.Clone()
	return nil
}

func (s *Reports) Get(_ context.Context, id uuid.UUID) (*domain.Report, error) {
	const op = "memory.Report.Get"

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return r.Clone(), nil
}

func (s *Reports) CompareAndSwap(_ context.Context, id uuid.UUID, expected domain.Precondition, upd domain.ReportUpdate) (*domain.Report, error) {
	const op = "memory.Report.CompareAndSwap"

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	if r.Status != expected.Status || r.Revision != expected.Revision {
		return nil, fmt.Errorf("%s: %w", op, e.ErrConflict)
	}

	upd.ApplyTo(r, s.now())
	return r.Clone(), nil
}

func (s *Reports) List(_ context.Context, f domain.ListFilter) ([]*domain.Report, int64, error) {
	f = f.Normalize()

	s.mu.Lock()
	matched := make([]*domain.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		matched = append(matched, r.Clone())
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReportedAt.After(matched[j].ReportedAt)
	})

	total := int64(len(matched))
	offset := f.Offset()
	if offset < 0 || offset >= len(matched) {
		return []*domain.Report{}, total, nil
	}
	end := offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
