package domain

import (
	"testing"
	"time"
)

func TestAttendanceStatus_Transitions(t *testing.T) {
	cases := []struct {
		from    AttendanceStatus
		to      AttendanceStatus
		allowed bool
	}{
		{"", StatusClockedIn, true},
		{"", StatusAbsent, true},
		{"", StatusClockedOut, false},
		{StatusClockedIn, StatusClockedOut, true},
		{StatusClockedIn, StatusAbsent, false},
		{StatusClockedOut, StatusClockedIn, false},
		{StatusAbsent, StatusClockedIn, false},
		{StatusAbsent, StatusClockedOut, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("transition %q -> %q: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestAttendanceRecord_Open(t *testing.T) {
	in := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)

	open := &AttendanceRecord{Status: StatusClockedIn, ClockInTime: &in}
	if !open.Open() {
		t.Fatalf("clocked-in record without clock-out should be open")
	}

	closed := &AttendanceRecord{Status: StatusClockedOut, ClockInTime: &in, ClockOutTime: &out}
	if closed.Open() {
		t.Fatalf("clocked-out record should not be open")
	}

	absent := &AttendanceRecord{Status: StatusAbsent}
	if absent.Open() {
		t.Fatalf("absent record should not be open")
	}
}

func TestAttendanceRecord_WorkedHours(t *testing.T) {
	in := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)

	r := &AttendanceRecord{ClockInTime: &in, ClockOutTime: &out}
	if got := r.WorkedHours(); got != 8 {
		t.Fatalf("expected 8 worked hours, got %v", got)
	}

	open := &AttendanceRecord{ClockInTime: &in}
	if got := open.WorkedHours(); got != 0 {
		t.Fatalf("open record should report 0 worked hours, got %v", got)
	}
}
