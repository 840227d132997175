package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mvphrm/internal/logging"
	"mvphrm/internal/model"
)

// ErrEmployeeIDNotNumber is shown when the employee id field is not a number.
const ErrEmployeeIDNotNumber = "Employee ID must be a number"

// AttendanceMarker records attendance.
type AttendanceMarker interface {
	Mark(ctx context.Context, in model.AttendanceInput) (model.AttendanceResponse, error)
}

// EmployeeAdder creates employees.
type EmployeeAdder interface {
	Add(ctx context.Context, in model.EmployeeInput) (model.Employee, error)
}

// AttendanceForm holds the attendance form fields as typed by the user.
type AttendanceForm struct {
	EmployeeID string
	Date       string
	Status     model.AttendanceStatus
	Message    string
	OK         bool
}

// NewAttendanceForm returns the empty form with status Present.
func NewAttendanceForm() AttendanceForm {
	return AttendanceForm{Status: model.StatusPresent}
}

// Submit marks attendance. On success the form resets and shows a
// confirmation; on failure the values are kept and the error is shown.
func (f *AttendanceForm) Submit(ctx context.Context, m AttendanceMarker, log *logging.Logger) {
	f.Message, f.OK = "", false
	if f.Status == "" {
		f.Status = model.StatusPresent
	}

	id, err := strconv.Atoi(strings.TrimSpace(f.EmployeeID))
	if err != nil {
		f.Message = ErrEmployeeIDNotNumber
		return
	}

	resp, err := m.Mark(ctx, model.AttendanceInput{EmployeeID: id, Date: f.Date, Status: f.Status})
	if err != nil {
		log.Warn("attendance form rejected", logging.Context{Error: err.Error()})
		f.Message = err.Error()
		return
	}

	log.Info("attendance marked", logging.Context{Fields: map[string]any{
		"employeeId": resp.EmployeeID,
		"date":       resp.Date,
		"status":     string(resp.Status),
	}})
	*f = NewAttendanceForm()
	f.Message = fmt.Sprintf("Attendance marked successfully for employee %d on %s", resp.EmployeeID, resp.Date)
	f.OK = true
}

// EmployeeForm holds the employee form fields.
type EmployeeForm struct {
	Name       string
	Email      string
	Department string
	Message    string
	OK         bool
}

// Submit creates the employee, resetting the form on success.
func (f *EmployeeForm) Submit(ctx context.Context, a EmployeeAdder, log *logging.Logger) {
	f.Message, f.OK = "", false

	emp, err := a.Add(ctx, model.EmployeeInput{
		Name:       strings.TrimSpace(f.Name),
		Email:      strings.TrimSpace(f.Email),
		Department: strings.TrimSpace(f.Department),
	})
	if err != nil {
		log.Warn("employee form rejected", logging.Context{Error: err.Error()})
		f.Message = err.Error()
		return
	}

	log.Info("employee added", logging.Context{Fields: map[string]any{"employeeId": emp.ID}})
	*f = EmployeeForm{
		Message: fmt.Sprintf("Employee %s added successfully!", emp.Name),
		OK:      true,
	}
}
