package ui

import (
	"strconv"

	"mvphrm/internal/model"
	"mvphrm/internal/query"
)

// Table is a rendered list: either a status line or rows.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Status  string
}

// EmployeeList renders the employee list query.
func EmployeeList(res query.Result[[]model.Employee]) Table {
	t := Table{Title: "Employee List", Headers: []string{"ID", "Name", "Email", "Department"}}
	if t.Status = statusText(res.IsLoading, res.Err, "Loading employees..."); t.Status != "" {
		return t
	}
	for _, e := range res.Data {
		t.Rows = append(t.Rows, []string{strconv.Itoa(e.ID), e.Name, e.Email, e.Department})
	}
	return t
}

// AttendanceTable renders an attendance records query.
func AttendanceTable(res query.Result[[]model.AttendanceRecord]) Table {
	t := Table{Title: "Attendance Records", Headers: []string{"ID", "Employee ID", "Date", "Status"}}
	if t.Status = statusText(res.IsLoading, res.Err, "Loading attendance records..."); t.Status != "" {
		return t
	}
	for _, r := range res.Data {
		t.Rows = append(t.Rows, []string{strconv.Itoa(r.ID), strconv.Itoa(r.EmployeeID), r.Date, string(r.Status)})
	}
	return t
}

func statusText(loading bool, err error, loadingText string) string {
	switch {
	case loading:
		return loadingText
	case err != nil:
		return "Error: " + err.Error()
	}
	return ""
}
