package ports

import (
	"context"
	"time"
)

// AuditEventInput describes one attendance mutation for the audit trail.
type AuditEventInput struct {
	EmployeeID string
	RecordID   string
	Action     string // "clock_in", "clock_out", "mark_absent"
	Status     string
	Actor      string // identity id of the caller
	Timestamp  time.Time
}

// AuditService persists attendance audit events.
type AuditService interface {
	Process(ctx context.Context, event AuditEventInput) error
}

// AuditRepository is the audit trail store.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *AuditEventInput) error
}
