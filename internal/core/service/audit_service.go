package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/invenflow/workforce-api/internal/api/metrics"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, employeeID, action string, ts time.Time) (bool, error)
	Mark(ctx context.Context, employeeID, action string, ts time.Time) error
}

type auditService struct {
	repo  ports.AuditRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewAuditService returns an AuditService that deduplicates and persists
// attendance audit events.
func NewAuditService(repo ports.AuditRepository, dedup DedupChecker, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single audit event. Failures are
// reported to the dispatcher, never to the request path that produced the
// event.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	isDup, err := s.dedup.IsDuplicate(ctx, in.EmployeeID, in.Action, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("employee_id", in.EmployeeID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.AuditDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("employee_id", in.EmployeeID).Str("action", in.Action).Msg("duplicate audit event skipped")
		return nil
	}
	metrics.AuditDedupTotal.WithLabelValues("miss").Inc()

	if markErr := s.dedup.Mark(ctx, in.EmployeeID, in.Action, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("employee_id", in.EmployeeID).Msg("failed to set dedup key")
	}

	if err := s.repo.InsertEvent(ctx, &in); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("process audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("ok").Inc()
	s.log.Debug().
		Str("employee_id", in.EmployeeID).
		Str("action", in.Action).
		Str("record_id", in.RecordID).
		Msg("audit event persisted")
	return nil
}
