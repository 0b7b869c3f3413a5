package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportClaimed   ReportStatus = "claimed"
	ReportDismissed ReportStatus = "dismissed"
	ReportResolved  ReportStatus = "resolved"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportOpen, ReportClaimed, ReportDismissed, ReportResolved:
		return true
	}
	return false
}

// Terminal reports accept no further actions.
func (s ReportStatus) Terminal() bool {
	return s == ReportDismissed || s == ReportResolved
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report is a walker's sighting of a stray sheep.
// ID, Location, Description and ReportedAt never change after intake.
// Revision and UpdatedAt are audit fields bumped by every successful write.
type Report struct {
	ID          uuid.UUID    `json:"id"`
	Status      ReportStatus `json:"status"`
	Location    Location     `json:"sighting_location"`
	Description string       `json:"description,omitempty"`
	ReportedAt  time.Time    `json:"reported_at"`
	ClaimedBy   *string      `json:"claimed_by,omitempty"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
	Revision    int64        `json:"revision"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := *r
	if r.ClaimedBy != nil {
		v := *r.ClaimedBy
		out.ClaimedBy = &v
	}
	if r.ResolvedAt != nil {
		v := *r.ResolvedAt
		out.ResolvedAt = &v
	}
	return &out
}

// Precondition is what a conditional write expects to find.
type Precondition struct {
	Status   ReportStatus
	Revision int64
}

// ReportUpdate replaces the mutable fields of a report. Nil pointers clear the field.
type ReportUpdate struct {
	Status     ReportStatus
	ClaimedBy  *string
	ResolvedAt *time.Time
}

func (u ReportUpdate) ApplyTo(r *Report, now time.Time) {
	r.Status = u.Status
	r.ClaimedBy = nil
	if u.ClaimedBy != nil {
		v := *u.ClaimedBy
		r.ClaimedBy = &v
	}
	r.ResolvedAt = nil
	if u.ResolvedAt != nil {
		v := *u.ResolvedAt
		r.ResolvedAt = &v
	}
	r.Revision++
	r.UpdatedAt = now
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	// MaxListPage keeps (page-1)*limit far from integer overflow.
	MaxListPage = 1_000_000
)

type ListFilter struct {
	Status ReportStatus
	Page   int
	Limit  int
}

// Normalize applies the paging defaults and bounds every store honours.
func (f ListFilter) Normalize() ListFilter {
	switch {
	case f.Page < 1:
		f.Page = 1
	case f.Page > MaxListPage:
		f.Page = MaxListPage
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultListLimit
	case f.Limit > MaxListLimit:
		f.Limit = MaxListLimit
	}
	return f
}

// Offset is the number of rows skipped for a normalized filter.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
