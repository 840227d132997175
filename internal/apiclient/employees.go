package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"mvphrm/internal/model"
)

// ListEmployees returns every employee.
func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return Do[[]model.Employee](ctx, c, http.MethodGet, "/employees/", nil)
}

// CreateEmployee creates an employee; the backend assigns the id.
func (c *Client) CreateEmployee(ctx context.Context, in model.EmployeeInput) (model.Employee, error) {
	return Do[model.Employee](ctx, c, http.MethodPost, "/employees/", in)
}

// GetEmployee returns one employee.
func (c *Client) GetEmployee(ctx context.Context, id int) (model.Employee, error) {
	return Do[model.Employee](ctx, c, http.MethodGet, "/employees/"+strconv.Itoa(id), nil)
}

// UpdateEmployee replaces an employee's fields.
func (c *Client) UpdateEmployee(ctx context.Context, id int, in model.EmployeeInput) (model.Employee, error) {
	return Do[model.Employee](ctx, c, http.MethodPut, "/employees/"+strconv.Itoa(id), in)
}

// DeleteEmployee deletes an employee. The backend answers with an empty body.
func (c *Client) DeleteEmployee(ctx context.Context, id int) error {
	return c.Request(ctx, http.MethodDelete, "/employees/"+strconv.Itoa(id), nil, nil)
}
