package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"mvphrm/internal/model"
)

// MarkAttendance records attendance for one employee and day.
func (c *Client) MarkAttendance(ctx context.Context, in model.AttendanceInput) (model.AttendanceResponse, error) {
	return Do[model.AttendanceResponse](ctx, c, http.MethodPost, "/attendance/", in)
}

// GetAttendance returns the records of one employee.
func (c *Client) GetAttendance(ctx context.Context, employeeID int) ([]model.AttendanceRecord, error) {
	return Do[[]model.AttendanceRecord](ctx, c, http.MethodGet, "/attendance/"+strconv.Itoa(employeeID), nil)
}

// ListAttendance returns every attendance record.
func (c *Client) ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	return Do[[]model.AttendanceRecord](ctx, c, http.MethodGet, "/attendance/", nil)
}

// GetAttendanceOnDate returns one employee's record for date (YYYY-MM-DD).
func (c *Client) GetAttendanceOnDate(ctx context.Context, employeeID int, date string) (model.AttendanceRecord, error) {
	endpoint := "/attendance/" + strconv.Itoa(employeeID) + "/" + url.PathEscape(date)
	return Do[model.AttendanceRecord](ctx, c, http.MethodGet, endpoint, nil)
}

// Health checks the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.Request(ctx, http.MethodGet, "/health", nil, &out)
}
