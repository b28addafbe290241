package domain

import (
	"fmt"
	"time"
)

// AttendanceStatus represents the per-day state of an employee's record.
type AttendanceStatus string

const (
	StatusClockedIn  AttendanceStatus = "clocked_in"
	StatusClockedOut AttendanceStatus = "clocked_out"
	StatusAbsent     AttendanceStatus = "absent"
)

// DateLayout is the calendar-date key format for attendance records.
const DateLayout = "2006-01-02"

// validTransitions defines the allowed state machine transitions. An empty
// current status stands for "no record yet"; clocked_out and absent are
// terminal for the day.
var validTransitions = map[AttendanceStatus][]AttendanceStatus{
	"":              {StatusClockedIn, StatusAbsent},
	StatusClockedIn: {StatusClockedOut},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s AttendanceStatus) CanTransitionTo(next AttendanceStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AttendanceRecord is one logical record per (employee, calendar date).
// A record with a clock-in time and no clock-out time is "open"; at most one
// open record exists per employee at any instant.
type AttendanceRecord struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	WorkDate     string           `json:"work_date"`
	ClockInTime  *time.Time       `json:"clock_in_time,omitempty"`
	ClockOutTime *time.Time       `json:"clock_out_time,omitempty"`
	Status       AttendanceStatus `json:"status"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Open reports whether the record is clocked in with no clock-out stamped.
func (r *AttendanceRecord) Open() bool {
	return r.Status == StatusClockedIn && r.ClockOutTime == nil
}

// WorkedHours returns the hours between clock-in and clock-out, zero for
// records that are not closed.
func (r *AttendanceRecord) WorkedHours() float64 {
	if r.ClockInTime == nil || r.ClockOutTime == nil {
		return 0
	}
	return r.ClockOutTime.Sub(*r.ClockInTime).Hours()
}

var (
	ErrAlreadyClockedIn = fmt.Errorf("%w: already clocked in", ErrConflict)
	ErrNotClockedIn     = fmt.Errorf("%w: no open attendance record", ErrConflict)
	ErrDuplicateRecord  = fmt.Errorf("%w: attendance record already exists for date", ErrConflict)
	ErrInvalidTimeOrder = fmt.Errorf("%w: clock-out before clock-in", ErrConflict)
	ErrRecordNotFound   = fmt.Errorf("%w: attendance record", ErrNotFound)
)
