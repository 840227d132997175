// Package attendance holds the attendance reads and writes used by the UI.
package attendance

import (
	"context"

	"mvphrm/internal/model"
	"mvphrm/internal/query"
)

// AllKey caches every attendance record.
var AllKey = query.Key{"attendance", "all"}

// Key caches one employee's records. It is also the prefix of that
// employee's per-date keys.
func Key(employeeID int) query.Key { return query.Key{"attendance", employeeID} }

// DateKey caches one employee's record for a date.
func DateKey(employeeID int, date string) query.Key {
	return query.Key{"attendance", employeeID, date}
}

// API is the subset of the backend client used for attendance.
type API interface {
	MarkAttendance(ctx context.Context, in model.AttendanceInput) (model.AttendanceResponse, error)
	GetAttendance(ctx context.Context, employeeID int) ([]model.AttendanceRecord, error)
	ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error)
	GetAttendanceOnDate(ctx context.Context, employeeID int, date string) (model.AttendanceRecord, error)
}

// Service exposes cached attendance reads and the mark operation.
type Service struct {
	api     API
	queries *query.Client
}

// NewService creates a service.
func NewService(api API, queries *query.Client) *Service {
	return &Service{api: api, queries: queries}
}

// ForEmployee returns the records of one employee. An employeeID of 0 means
// no employee is selected: nothing is fetched and the result is empty.
func (s *Service) ForEmployee(ctx context.Context, employeeID int) query.Result[[]model.AttendanceRecord] {
	if employeeID == 0 {
		return query.Result[[]model.AttendanceRecord]{}
	}
	return query.Query(ctx, s.queries, Key(employeeID), func(ctx context.Context) ([]model.AttendanceRecord, error) {
		return s.api.GetAttendance(ctx, employeeID)
	})
}

// All returns every attendance record.
func (s *Service) All(ctx context.Context) query.Result[[]model.AttendanceRecord] {
	return query.Query(ctx, s.queries, AllKey, s.api.ListAttendance)
}

// OnDate returns one employee's record for date.
func (s *Service) OnDate(ctx context.Context, employeeID int, date string) query.Result[model.AttendanceRecord] {
	if employeeID == 0 || date == "" {
		return query.Result[model.AttendanceRecord]{}
	}
	return query.Query(ctx, s.queries, DateKey(employeeID, date), func(ctx context.Context) (model.AttendanceRecord, error) {
		return s.api.GetAttendanceOnDate(ctx, employeeID, date)
	})
}

// Mark records attendance and invalidates that employee's records and the
// full list. Input is validated by the backend; its message is returned.
func (s *Service) Mark(ctx context.Context, in model.AttendanceInput) (model.AttendanceResponse, error) {
	return query.Mutate(ctx, s.queries, func(ctx context.Context) (model.AttendanceResponse, error) {
		return s.api.MarkAttendance(ctx, in)
	}, Key(in.EmployeeID), AllKey)
}
