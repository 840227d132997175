// Package employee holds the employee reads and writes used by the UI.
// Reads go through the query cache; writes invalidate the employee keys.
package employee

import (
	"context"

	"mvphrm/internal/model"
	"mvphrm/internal/query"
)

// ListKey caches the employee list. Detail keys share it as a prefix.
var ListKey = query.Key{"employees"}

// DetailKey caches one employee.
func DetailKey(id int) query.Key { return query.Key{"employees", id} }

// API is the subset of the backend client used for employees.
type API interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	GetEmployee(ctx context.Context, id int) (model.Employee, error)
	CreateEmployee(ctx context.Context, in model.EmployeeInput) (model.Employee, error)
	UpdateEmployee(ctx context.Context, id int, in model.EmployeeInput) (model.Employee, error)
	DeleteEmployee(ctx context.Context, id int) error
}

// Service exposes cached employee reads and invalidating writes.
type Service struct {
	api     API
	queries *query.Client
}

// NewService creates a service.
func NewService(api API, queries *query.Client) *Service {
	return &Service{api: api, queries: queries}
}

// List returns all employees.
func (s *Service) List(ctx context.Context) query.Result[[]model.Employee] {
	return query.Query(ctx, s.queries, ListKey, s.api.ListEmployees)
}

// Get returns one employee.
func (s *Service) Get(ctx context.Context, id int) query.Result[model.Employee] {
	return query.Query(ctx, s.queries, DetailKey(id), func(ctx context.Context) (model.Employee, error) {
		return s.api.GetEmployee(ctx, id)
	})
}

// Add creates an employee.
func (s *Service) Add(ctx context.Context, in model.EmployeeInput) (model.Employee, error) {
	return query.Mutate(ctx, s.queries, func(ctx context.Context) (model.Employee, error) {
		return s.api.CreateEmployee(ctx, in)
	}, ListKey)
}

// Update replaces an employee's fields.
func (s *Service) Update(ctx context.Context, id int, in model.EmployeeInput) (model.Employee, error) {
	return query.Mutate(ctx, s.queries, func(ctx context.Context) (model.Employee, error) {
		return s.api.UpdateEmployee(ctx, id, in)
	}, ListKey)
}

// Delete removes an employee.
func (s *Service) Delete(ctx context.Context, id int) error {
	_, err := query.Mutate(ctx, s.queries, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.DeleteEmployee(ctx, id)
	}, ListKey)
	return err
}
