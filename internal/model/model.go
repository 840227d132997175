package model

// Employee represents an employee record owned by the HRM backend.
type Employee struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"` // optional; null decodes to ""
}

// EmployeeInput is the create/update payload for an employee.
type EmployeeInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// AttendanceStatus is the attendance state for one day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// AttendanceRecord represents a single attendance entry.
type AttendanceRecord struct {
	ID         int              `json:"id"`
	EmployeeID int              `json:"employee_id"`
	Date       string           `json:"date"` // YYYY-MM-DD
	Status     AttendanceStatus `json:"status"`
}

// AttendanceInput is the payload for marking attendance.
type AttendanceInput struct {
	EmployeeID int              `json:"employee_id"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
}

// AttendanceResponse is returned by the backend after marking attendance.
// ID may be absent.
type AttendanceResponse struct {
	ID         *int             `json:"id,omitempty"`
	EmployeeID int              `json:"employee_id"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
}
