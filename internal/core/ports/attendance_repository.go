package ports

import (
	"context"
	"time"

	"github.com/invenflow/workforce-api/internal/core/domain"
)

// AttendanceFilter carries query parameters for listing attendance records.
type AttendanceFilter struct {
	EmployeeID string // empty = all employees
	Status     string // optional: filter by record status
	DateFrom   string // optional, inclusive, domain.DateLayout
	DateTo     string // optional, inclusive, domain.DateLayout
	Page       int    // 1-based
	Limit      int    // capped by the service
}

// AttendanceStats aggregates record counts and worked time.
type AttendanceStats struct {
	Total        int64   `json:"total"`
	ClockedIn    int64   `json:"clocked_in"`
	ClockedOut   int64   `json:"clocked_out"`
	Absent       int64   `json:"absent"`
	AverageHours float64 `json:"average_hours"`
}

// AttendanceRepository is the attendance store contract. The store enforces
// the record uniqueness invariants: Insert fails with domain.ErrDuplicateRecord
// when a record for (employee, date) exists, and at most one open record per
// employee can be stored at any time.
type AttendanceRepository interface {
	// FindOpenRecord returns the employee's open record, or
	// domain.ErrRecordNotFound when none exists.
	FindOpenRecord(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*domain.AttendanceRecord, error)
	Insert(ctx context.Context, record *domain.AttendanceRecord) error
	// CompleteRecord atomically stamps the clock-out on an open record. It is
	// conditional: domain.ErrRecordNotFound when the record is no longer open.
	CompleteRecord(ctx context.Context, recordID string, clockOut time.Time, notes string) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter AttendanceFilter) ([]*domain.AttendanceRecord, int64, error)
	AggregateStats(ctx context.Context, filter AttendanceFilter) (*AttendanceStats, error)
}
