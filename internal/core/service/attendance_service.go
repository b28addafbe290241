package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/invenflow/workforce-api/internal/api/metrics"
	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

const maxAttendancePageSize = 100

// AuditSink receives audit events for successful attendance mutations.
// Delivery is asynchronous and must never block the request path.
type AuditSink interface {
	Enqueue(event ports.AuditEventInput)
}

// AttendanceService drives the time-clock state machine. Mutations for a
// given employee are serialized through a keyed lock; the store's uniqueness
// constraints back the same invariant across processes.
type AttendanceService struct {
	repo  ports.AttendanceRepository
	locks *keyedLock
	audit AuditSink
	log   zerolog.Logger
	clock func() time.Time
}

func NewAttendanceService(repo ports.AttendanceRepository, audit AuditSink, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		repo:  repo,
		locks: newKeyedLock(defaultLockShards),
		audit: audit,
		log:   log,
		clock: timeNowUTC,
	}
}

// ClockIn opens a new record for today. Fails with domain.ErrAlreadyClockedIn
// when an open record exists, or domain.ErrDuplicateRecord when today already
// holds a closed or absent record.
func (s *AttendanceService) ClockIn(ctx context.Context, employeeID, notes string) (*domain.AttendanceRecord, error) {
	if employeeID == "" {
		return nil, domain.NewValidationError("employee_id", "is required")
	}

	unlock := s.locks.Lock(employeeID)
	defer unlock()

	if _, err := s.repo.FindOpenRecord(ctx, employeeID); err == nil {
		metrics.AttendanceOpsTotal.WithLabelValues("clock_in", "conflict").Inc()
		return nil, domain.ErrAlreadyClockedIn
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("clock in: %w", err)
	}

	now := s.clock()
	record := &domain.AttendanceRecord{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		WorkDate:    now.Format(domain.DateLayout),
		ClockInTime: &now,
		Status:      domain.StatusClockedIn,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			metrics.AttendanceOpsTotal.WithLabelValues("clock_in", "conflict").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("clock in: %w", err)
	}

	metrics.AttendanceOpsTotal.WithLabelValues("clock_in", "ok").Inc()
	s.log.Info().Str("employee_id", employeeID).Str("record_id", record.ID).Msg("clocked in")
	s.emitAudit(ctx, record, "clock_in")
	return record, nil
}

// ClockOut closes the employee's open record, stamping clockOutTime = now.
func (s *AttendanceService) ClockOut(ctx context.Context, employeeID, notes string) (*domain.AttendanceRecord, error) {
	if employeeID == "" {
		return nil, domain.NewValidationError("employee_id", "is required")
	}

	unlock := s.locks.Lock(employeeID)
	defer unlock()

	open, err := s.repo.FindOpenRecord(ctx, employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			metrics.AttendanceOpsTotal.WithLabelValues("clock_out", "conflict").Inc()
			return nil, domain.ErrNotClockedIn
		}
		return nil, fmt.Errorf("clock out: %w", err)
	}

	now := s.clock()
	if open.ClockInTime != nil && now.Before(*open.ClockInTime) {
		metrics.AttendanceOpsTotal.WithLabelValues("clock_out", "conflict").Inc()
		return nil, domain.ErrInvalidTimeOrder
	}

	record, err := s.repo.CompleteRecord(ctx, open.ID, now, notes)
	if err != nil {
		// Raced with another writer that closed the record first.
		if errors.Is(err, domain.ErrRecordNotFound) {
			metrics.AttendanceOpsTotal.WithLabelValues("clock_out", "conflict").Inc()
			return nil, domain.ErrNotClockedIn
		}
		return nil, fmt.Errorf("clock out: %w", err)
	}

	metrics.AttendanceOpsTotal.WithLabelValues("clock_out", "ok").Inc()
	s.log.Info().Str("employee_id", employeeID).Str("record_id", record.ID).Msg("clocked out")
	s.emitAudit(ctx, record, "clock_out")
	return record, nil
}

// MarkAbsent creates an absent record for the given date. Any existing record
// for (employee, date) is a conflict; absence never silently overwrites clock
// activity.
func (s *AttendanceService) MarkAbsent(ctx context.Context, employeeID, date, notes string) (*domain.AttendanceRecord, error) {
	if employeeID == "" {
		return nil, domain.NewValidationError("employee_id", "is required")
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, domain.NewValidationError("date", "must be formatted as YYYY-MM-DD")
	}

	unlock := s.locks.Lock(employeeID)
	defer unlock()

	if _, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, date); err == nil {
		metrics.AttendanceOpsTotal.WithLabelValues("mark_absent", "conflict").Inc()
		return nil, domain.ErrDuplicateRecord
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("mark absent: %w", err)
	}

	now := s.clock()
	record := &domain.AttendanceRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		WorkDate:   date,
		Status:     domain.StatusAbsent,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			metrics.AttendanceOpsTotal.WithLabelValues("mark_absent", "conflict").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("mark absent: %w", err)
	}

	metrics.AttendanceOpsTotal.WithLabelValues("mark_absent", "ok").Inc()
	s.log.Info().Str("employee_id", employeeID).Str("date", date).Msg("marked absent")
	s.emitAudit(ctx, record, "mark_absent")
	return record, nil
}

// List returns a page of records matching filter and the total count.
func (s *AttendanceService) List(ctx context.Context, filter ports.AttendanceFilter) ([]*domain.AttendanceRecord, int64, error) {
	normalizeFilter(&filter)
	return s.repo.List(ctx, filter)
}

// Stats aggregates counts by status and average worked hours.
func (s *AttendanceService) Stats(ctx context.Context, filter ports.AttendanceFilter) (*ports.AttendanceStats, error) {
	normalizeFilter(&filter)
	return s.repo.AggregateStats(ctx, filter)
}

func normalizeFilter(filter *ports.AttendanceFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxAttendancePageSize {
		filter.Limit = maxAttendancePageSize
	}
}

func (s *AttendanceService) emitAudit(ctx context.Context, record *domain.AttendanceRecord, action string) {
	if s.audit == nil {
		return
	}
	actor, _ := ctx.Value(actorContextKey{}).(string)
	s.audit.Enqueue(ports.AuditEventInput{
		EmployeeID: record.EmployeeID,
		RecordID:   record.ID,
		Action:     action,
		Status:     string(record.Status),
		Actor:      actor,
		Timestamp:  s.clock(),
	})
}

type actorContextKey struct{}

// WithActor stamps the acting identity's id on the context for audit trails.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actorID)
}
