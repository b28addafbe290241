package handler

import (
	"time"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
)

const maxPageSize = 100

// --- Request / Response types ---

type clockRequest struct {
	// EmployeeID defaults to the caller's own id; setting another employee's
	// id requires attendance:manage.
	EmployeeID string `json:"employee_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type markAbsentRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date"        validate:"required,datetime=2006-01-02"`
	Notes      string `json:"notes,omitempty"`
}

type attendanceRecordResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	WorkDate     string `json:"work_date"`
	ClockInTime  string `json:"clock_in_time,omitempty"`
	ClockOutTime string `json:"clock_out_time,omitempty"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
}

type attendanceListResponse struct {
	Items      []attendanceRecordResponse `json:"items"`
	Total      int64                      `json:"total"`
	Page       int                        `json:"page"`
	Limit      int                        `json:"limit"`
	TotalPages int                        `json:"total_pages"`
}

// --- Domain → HTTP response ---

func toRecordResponse(r *domain.AttendanceRecord) attendanceRecordResponse {
	resp := attendanceRecordResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		WorkDate:   r.WorkDate,
		Status:     string(r.Status),
		Notes:      r.Notes,
	}
	if r.ClockInTime != nil {
		resp.ClockInTime = r.ClockInTime.UTC().Format(time.RFC3339)
	}
	if r.ClockOutTime != nil {
		resp.ClockOutTime = r.ClockOutTime.UTC().Format(time.RFC3339)
	}
	return resp
}

func toListResponse(records []*domain.AttendanceRecord, total int64, filter ports.AttendanceFilter) attendanceListResponse {
	items := make([]attendanceRecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toRecordResponse(r))
	}
	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}
	return attendanceListResponse{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}
}
