package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
)

// EmployeeService manages employee records through the HRIS API.
type EmployeeService interface {
	// ListEmployees returns one page for params, served from the request cache when fresh.
	ListEmployees(ctx context.Context, params listquery.Params) (ListResult, error)

	// ListQuery is the cache query behind ListEmployees, for views that observe it
	ListQuery(params listquery.Params) querycache.Spec[ListResult]

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (Employee, error)

	// CreateEmployee creates an employee and invalidates every cached list
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (Employee, error)

	// UpdateEmployee sends only the changed fields, then invalidates lists and the detail entry
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)

	// DeleteEmployee removes an employee, invalidates lists and drops the detail entry
	DeleteEmployee(ctx context.Context, id string) error

	// Options lists employees for pickers, capped at the API's maximum page size
	Options(ctx context.Context) ([]Employee, error)
}
