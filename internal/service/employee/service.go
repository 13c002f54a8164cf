package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/pagination"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/querycache"
)

// OptionsLimit is the largest page the API serves, used for employee pickers.
const OptionsLimit = 100

var listFamily = querycache.NewKey("employees", "list")

// ListKey is the cache key of one employee list page.
func ListKey(params listquery.Params) querycache.Key {
	return listFamily.With(params.Values())
}

// DetailKey is the cache key of one employee.
func DetailKey(id string) querycache.Key {
	return querycache.NewKey("employees", "detail", id)
}

// Config sets the cache lifetimes of employee queries.
type Config struct {
	List   querycache.Options
	Detail querycache.Options
}

type EmployeeServiceImpl struct {
	api   *apiclient.Client
	cache *querycache.Client
	cfg   Config
}

func NewEmployeeService(api *apiclient.Client, cache *querycache.Client, cfg Config) employee.EmployeeService {
	return &EmployeeServiceImpl{
		api:   api,
		cache: cache,
		cfg:   cfg,
	}
}

// ListQuery implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListQuery(params listquery.Params) querycache.Spec[employee.ListResult] {
	params = params.Clone()
	return querycache.Spec[employee.ListResult]{
		Key:     ListKey(params),
		Options: s.cfg.List,
		Fetch: func(ctx context.Context) (employee.ListResult, error) {
			return s.fetchList(ctx, params)
		},
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, params listquery.Params) (employee.ListResult, error) {
	return querycache.Query(ctx, s.cache, s.ListQuery(params))
}

func (s *EmployeeServiceImpl) fetchList(ctx context.Context, params listquery.Params) (employee.ListResult, error) {
	resp, err := s.api.Get(ctx, "/employees", params.Values())
	if err != nil {
		return employee.ListResult{}, err
	}

	var items []employee.Employee
	if err := resp.Into(&items); err != nil {
		return employee.ListResult{}, fmt.Errorf("failed to decode employee list: %w", err)
	}
	meta, ok := resp.Meta()
	if !ok {
		meta = pagination.NewMeta(len(items), params.Page, params.Limit)
	}
	return employee.ListResult{Items: items, Meta: meta}, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	if id == "" {
		return employee.Employee{}, employee.ErrMissingID
	}

	return querycache.Query(ctx, s.cache, querycache.Spec[employee.Employee]{
		Key:     DetailKey(id),
		Options: s.cfg.Detail,
		Fetch: func(ctx context.Context) (employee.Employee, error) {
			resp, err := s.api.Get(ctx, employeePath(id), nil)
			if err != nil {
				return employee.Employee{}, mapError(err)
			}
			var e employee.Employee
			if err := resp.Into(&e); err != nil {
				return employee.Employee{}, fmt.Errorf("failed to decode employee: %w", err)
			}
			return e, nil
		},
	})
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	resp, err := s.api.Request(ctx, http.MethodPost, "/employees", req, nil)
	if err != nil {
		return employee.Employee{}, mapError(err)
	}

	var created employee.Employee
	if err := resp.Into(&created); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to decode created employee: %w", err)
	}

	n := s.cache.Invalidate(listFamily)
	slog.Info("Employee created", "employee_id", created.ID, "invalidated", n)
	return created, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	resp, err := s.api.Request(ctx, http.MethodPatch, employeePath(req.ID), req, nil)
	if err != nil {
		return employee.Employee{}, mapError(err)
	}

	var updated employee.Employee
	if err := resp.Into(&updated); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to decode updated employee: %w", err)
	}

	n := s.cache.Invalidate(listFamily) + s.cache.Invalidate(DetailKey(req.ID))
	slog.Info("Employee updated", "employee_id", req.ID, "invalidated", n)
	return updated, nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if id == "" {
		return employee.ErrMissingID
	}

	if _, err := s.api.Request(ctx, http.MethodDelete, employeePath(id), nil, nil); err != nil {
		return mapError(err)
	}

	s.cache.Invalidate(listFamily)
	s.cache.Remove(DetailKey(id))
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}

// Options implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Options(ctx context.Context) ([]employee.Employee, error) {
	result, err := s.ListEmployees(ctx, listquery.Params{Limit: OptionsLimit})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

func employeePath(id string) string {
	return "/employees/" + url.PathEscape(id)
}

// mapError turns REST failures with a domain meaning into the domain's sentinels.
func mapError(err error) error {
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		return employee.ErrEmployeeNotFound
	case errors.Is(err, apiclient.ErrConflict):
		return employee.ErrEmailExists
	}
	return err
}
