package ports

import (
	"context"

	"github.com/invenflow/workforce-api/internal/core/domain"
)

// AttendanceService drives the per-employee-per-day time-clock state machine.
// Mutations for a given employee are linearized by the implementation.
type AttendanceService interface {
	ClockIn(ctx context.Context, employeeID, notes string) (*domain.AttendanceRecord, error)
	ClockOut(ctx context.Context, employeeID, notes string) (*domain.AttendanceRecord, error)
	// MarkAbsent requires attendance:manage at the boundary; the self override
	// never applies to it.
	MarkAbsent(ctx context.Context, employeeID, date, notes string) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter AttendanceFilter) ([]*domain.AttendanceRecord, int64, error)
	Stats(ctx context.Context, filter AttendanceFilter) (*AttendanceStats, error)
}
