package domain

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionMine     Action = "mine"
	ActionNotMine  Action = "not_mine"
	ActionResolved Action = "resolved"
)

func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionMine, ActionNotMine, ActionResolved:
		return a, true
	}
	return "", false
}

// ActionRequest is validated in order: action, then farmer_id, then report_id.
// An unparseable report_id is reported as not found, never as bad input.
type ActionRequest struct {
	Action   string `json:"action"`
	ReportID string `json:"report_id"`
	FarmerID string `json:"farmer_id" validate:"required,max=128"`
}

type ActionResult struct {
	Success   bool         `json:"success"`
	ReportID  uuid.UUID    `json:"report_id"`
	NewStatus ReportStatus `json:"new_status"`
	Action    Action       `json:"action"`
	FarmerID  string       `json:"farmer_id"`
	Report    *Report      `json:"-"`
}

// ReportEvent records one applied transition for downstream notifiers.
type ReportEvent struct {
	ReportID   uuid.UUID    `json:"report_id"`
	Action     Action       `json:"action"`
	FarmerID   string       `json:"farmer_id"`
	From       ReportStatus `json:"from"`
	To         ReportStatus `json:"to"`
	OccurredAt time.Time    `json:"occurred_at"`
}
