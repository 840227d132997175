package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvphrm/internal/model"
	"mvphrm/internal/query"
)

type fakeAPI struct {
	employees []model.Employee
	calls     map[string]int
	failWith  error
}

func newFakeAPI(emps ...model.Employee) *fakeAPI {
	return &fakeAPI{employees: emps, calls: map[string]int{}}
}

func (f *fakeAPI) ListEmployees(context.Context) ([]model.Employee, error) {
	f.calls["list"]++
	return append([]model.Employee(nil), f.employees...), nil
}

func (f *fakeAPI) GetEmployee(_ context.Context, id int) (model.Employee, error) {
	f.calls["get"]++
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Employee{}, errors.New("Employee not found")
}

func (f *fakeAPI) CreateEmployee(_ context.Context, in model.EmployeeInput) (model.Employee, error) {
	f.calls["create"]++
	if f.failWith != nil {
		return model.Employee{}, f.failWith
	}
	e := model.Employee{ID: len(f.employees) + 1, Name: in.Name, Email: in.Email, Department: in.Department}
	f.employees = append(f.employees, e)
	return e, nil
}

func (f *fakeAPI) UpdateEmployee(_ context.Context, id int, in model.EmployeeInput) (model.Employee, error) {
	f.calls["update"]++
	for i := range f.employees {
		if f.employees[i].ID == id {
			f.employees[i] = model.Employee{ID: id, Name: in.Name, Email: in.Email, Department: in.Department}
			return f.employees[i], nil
		}
	}
	return model.Employee{}, errors.New("Employee not found")
}

func (f *fakeAPI) DeleteEmployee(_ context.Context, id int) error {
	f.calls["delete"]++
	for i := range f.employees {
		if f.employees[i].ID == id {
			f.employees = append(f.employees[:i], f.employees[i+1:]...)
			return nil
		}
	}
	return errors.New("Employee not found")
}

func TestDeleteRefetchesListOnce(t *testing.T) {
	api := newFakeAPI(model.Employee{ID: 1, Name: "Ada"}, model.Employee{ID: 2, Name: "Linus"})
	svc := NewService(api, query.NewClient(time.Minute, nil))
	ctx := context.Background()

	res := svc.List(ctx)
	require.NoError(t, res.Err)
	require.Len(t, res.Data, 2)
	svc.List(ctx)
	assert.Equal(t, 1, api.calls["list"])

	require.NoError(t, svc.Delete(ctx, 1))

	res = svc.List(ctx)
	svc.List(ctx)
	assert.Equal(t, 2, api.calls["list"])
	assert.Equal(t, []model.Employee{{ID: 2, Name: "Linus"}}, res.Data)
}

func TestAddFailureKeepsCache(t *testing.T) {
	api := newFakeAPI()
	api.failWith = errors.New("Email already registered")
	svc := NewService(api, query.NewClient(time.Minute, nil))
	ctx := context.Background()

	svc.List(ctx)
	_, err := svc.Add(ctx, model.EmployeeInput{Name: "Ada", Email: "ada@example.com"})
	assert.EqualError(t, err, "Email already registered")

	svc.List(ctx)
	assert.Equal(t, 1, api.calls["list"])
}

func TestUpdateInvalidatesDetail(t *testing.T) {
	api := newFakeAPI(model.Employee{ID: 1, Name: "Ada"})
	svc := NewService(api, query.NewClient(time.Minute, nil))
	ctx := context.Background()

	assert.Equal(t, "Ada", svc.Get(ctx, 1).Data.Name)
	_, err := svc.Update(ctx, 1, model.EmployeeInput{Name: "Ada L."})
	require.NoError(t, err)

	assert.Equal(t, "Ada L.", svc.Get(ctx, 1).Data.Name)
	assert.Equal(t, 2, api.calls["get"])
}
