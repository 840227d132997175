package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvphrm/internal/logging"
	"mvphrm/internal/model"
	"mvphrm/internal/query"
)

type markerFunc func(context.Context, model.AttendanceInput) (model.AttendanceResponse, error)

func (f markerFunc) Mark(ctx context.Context, in model.AttendanceInput) (model.AttendanceResponse, error) {
	return f(ctx, in)
}

type adderFunc func(context.Context, model.EmployeeInput) (model.Employee, error)

func (f adderFunc) Add(ctx context.Context, in model.EmployeeInput) (model.Employee, error) {
	return f(ctx, in)
}

func nopLogger() *logging.Logger { return logging.New(logging.Options{Name: logging.UILoggerName}) }

func TestAttendanceForm_SuccessResets(t *testing.T) {
	var got []model.AttendanceInput
	m := markerFunc(func(_ context.Context, in model.AttendanceInput) (model.AttendanceResponse, error) {
		got = append(got, in)
		return model.AttendanceResponse{EmployeeID: in.EmployeeID, Date: in.Date, Status: in.Status}, nil
	})
	f := AttendanceForm{EmployeeID: "3", Date: "2024-05-01", Status: model.StatusPresent}

	f.Submit(context.Background(), m, nopLogger())

	assert.Equal(t, []model.AttendanceInput{{EmployeeID: 3, Date: "2024-05-01", Status: model.StatusPresent}}, got)
	assert.Equal(t, "Attendance marked successfully for employee 3 on 2024-05-01", f.Message)
	assert.True(t, f.OK)
	f.Message, f.OK = "", false
	assert.Equal(t, NewAttendanceForm(), f)
}

func TestAttendanceForm_ErrorKeepsValues(t *testing.T) {
	m := markerFunc(func(context.Context, model.AttendanceInput) (model.AttendanceResponse, error) {
		return model.AttendanceResponse{}, errors.New("Employee not found")
	})
	f := AttendanceForm{EmployeeID: "9", Date: "2024-05-01", Status: model.StatusAbsent, Message: "old"}

	f.Submit(context.Background(), m, nopLogger())

	assert.Equal(t, AttendanceForm{EmployeeID: "9", Date: "2024-05-01", Status: model.StatusAbsent, Message: "Employee not found"}, f)
}

func TestAttendanceForm_NonNumericIDSkipsBackend(t *testing.T) {
	called := false
	m := markerFunc(func(context.Context, model.AttendanceInput) (model.AttendanceResponse, error) {
		called = true
		return model.AttendanceResponse{}, nil
	})
	f := AttendanceForm{EmployeeID: "abc", Date: "2024-05-01"}

	f.Submit(context.Background(), m, nopLogger())

	assert.False(t, called)
	assert.Equal(t, ErrEmployeeIDNotNumber, f.Message)
	assert.Equal(t, "abc", f.EmployeeID)
	assert.Equal(t, model.StatusPresent, f.Status)
}

func TestEmployeeForm(t *testing.T) {
	fail := true
	a := adderFunc(func(_ context.Context, in model.EmployeeInput) (model.Employee, error) {
		if fail {
			return model.Employee{}, errors.New("Email already registered")
		}
		return model.Employee{ID: 1, Name: in.Name, Email: in.Email}, nil
	})
	f := EmployeeForm{Name: " Ada ", Email: "ada@example.com", Department: "Research"}

	f.Submit(context.Background(), a, nopLogger())
	assert.Equal(t, "Email already registered", f.Message)
	assert.Equal(t, " Ada ", f.Name)

	fail = false
	f.Submit(context.Background(), a, nopLogger())
	assert.Equal(t, EmployeeForm{Message: "Employee Ada added successfully!", OK: true}, f)
}

func TestTables(t *testing.T) {
	emp := EmployeeList(query.Result[[]model.Employee]{Data: []model.Employee{{ID: 1, Name: "Ada", Email: "ada@example.com"}}})
	assert.Equal(t, []string{"ID", "Name", "Email", "Department"}, emp.Headers)
	require.Len(t, emp.Rows, 1)
	assert.Equal(t, []string{"1", "Ada", "ada@example.com", ""}, emp.Rows[0])
	assert.Empty(t, emp.Status)

	assert.Equal(t, "Loading employees...", EmployeeList(query.Result[[]model.Employee]{IsLoading: true}).Status)
	assert.Equal(t, "Error: down", EmployeeList(query.Result[[]model.Employee]{Err: errors.New("down")}).Status)

	att := AttendanceTable(query.Result[[]model.AttendanceRecord]{Data: []model.AttendanceRecord{{ID: 5, EmployeeID: 3, Date: "2024-05-01", Status: model.StatusAbsent}}})
	assert.Equal(t, []string{"ID", "Employee ID", "Date", "Status"}, att.Headers)
	assert.Equal(t, [][]string{{"5", "3", "2024-05-01", "Absent"}}, att.Rows)
	assert.Equal(t, "Loading attendance records...", AttendanceTable(query.Result[[]model.AttendanceRecord]{IsLoading: true}).Status)
}
