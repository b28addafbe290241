package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/invenflow/workforce-api/internal/core/domain"
	"github.com/invenflow/workforce-api/internal/core/ports"
	"github.com/invenflow/workforce-api/internal/core/service"
)

// AttendanceHandler handles HTTP requests for the time-clock.
type AttendanceHandler struct {
	attendance ports.AttendanceService
	guard      *service.Guard
}

func NewAttendanceHandler(attendance ports.AttendanceService, guard *service.Guard) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, guard: guard}
}

// ClockIn handles POST /v1/attendance/clock-in. Employees clock themselves in
// via the self override; clocking in another employee requires
// attendance:manage.
//
// @Summary      Clock in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clockRequest  true  "Clock-in details"
// @Success      201   {object}  attendanceRecordResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c echo.Context) error {
	identity, employeeID, notes, err := h.bindClock(c)
	if err != nil {
		return err
	}

	ctx := service.WithActor(c.Request().Context(), identity.ID)
	record, err := h.attendance.ClockIn(ctx, employeeID, notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRecordResponse(record))
}

// ClockOut handles POST /v1/attendance/clock-out.
//
// @Summary      Clock out
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clockRequest  true  "Clock-out details"
// @Success      200   {object}  attendanceRecordResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/attendance/clock-out [post]
func (h *AttendanceHandler) ClockOut(c echo.Context) error {
	identity, employeeID, notes, err := h.bindClock(c)
	if err != nil {
		return err
	}

	ctx := service.WithActor(c.Request().Context(), identity.ID)
	record, err := h.attendance.ClockOut(ctx, employeeID, notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordResponse(record))
}

// bindClock resolves the target employee for a clock mutation and authorizes
// it: own id through the self override, any other id through
// attendance:manage.
func (h *AttendanceHandler) bindClock(c echo.Context) (domain.Identity, string, string, error) {
	identity, err := ctxIdentity(c)
	if err != nil {
		return domain.Identity{}, "", "", err
	}

	var req clockRequest
	if err := c.Bind(&req); err != nil {
		return domain.Identity{}, "", "", echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = identity.ID
	}
	if err := h.guard.Check(identity, domain.ModuleAttendance, domain.ActionManage, service.WithSelf(employeeID)); err != nil {
		return domain.Identity{}, "", "", err
	}
	return identity, employeeID, req.Notes, nil
}

// MarkAbsent handles POST /v1/attendance/absences. The route is gated on
// attendance:manage by middleware; there is deliberately no self path, so an
// employee cannot mark their own absence.
//
// @Summary      Mark an employee absent
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      markAbsentRequest  true  "Absence details"
// @Success      201   {object}  attendanceRecordResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/attendance/absences [post]
func (h *AttendanceHandler) MarkAbsent(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req markAbsentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := service.WithActor(c.Request().Context(), identity.ID)
	record, err := h.attendance.MarkAbsent(ctx, req.EmployeeID, req.Date, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRecordResponse(record))
}

// List handles GET /v1/attendance. Callers without attendance:view are scoped
// to their own records.
//
// @Summary      List attendance records
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        status       query     string  false  "Filter by status"
// @Param        date_from    query     string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        date_to      query     string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Param        today        query     bool    false  "Restrict to today"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200  {object}  attendanceListResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/attendance [get]
func (h *AttendanceHandler) List(c echo.Context) error {
	_, filter, err := h.bindFilter(c)
	if err != nil {
		return err
	}

	records, total, err := h.attendance.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(records, total, filter))
}

// Stats handles GET /v1/attendance/stats.
//
// @Summary      Attendance statistics
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        date_from    query     string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        date_to      query     string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Success      200  {object}  ports.AttendanceStats
// @Failure      401  {object}  map[string]string
// @Router       /v1/attendance/stats [get]
func (h *AttendanceHandler) Stats(c echo.Context) error {
	_, filter, err := h.bindFilter(c)
	if err != nil {
		return err
	}

	stats, err := h.attendance.Stats(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AttendanceHandler) bindFilter(c echo.Context) (domain.Identity, ports.AttendanceFilter, error) {
	identity, err := ctxIdentity(c)
	if err != nil {
		return domain.Identity{}, ports.AttendanceFilter{}, err
	}

	filter := ports.AttendanceFilter{
		EmployeeID: c.QueryParam("employee_id"),
		Status:     c.QueryParam("status"),
		DateFrom:   c.QueryParam("date_from"),
		DateTo:     c.QueryParam("date_to"),
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		filter.Limit = limit
	}
	if today, _ := strconv.ParseBool(c.QueryParam("today")); today {
		date := time.Now().UTC().Format(domain.DateLayout)
		filter.DateFrom = date
		filter.DateTo = date
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	// Reads without the general permission are scoped to the caller's own
	// records rather than rejected.
	if err := h.guard.Check(identity, domain.ModuleAttendance, domain.ActionView); err != nil {
		filter.EmployeeID = identity.ID
	}

	return identity, filter, nil
}
