package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

// FormValues are the raw inputs of the employee form.
type FormValues struct {
	Email    string
	Name     string
	Password string
	Role     user.Role
}

// NewFormValues returns the blank create form.
func NewFormValues() FormValues {
	return FormValues{Role: user.RoleEmployee}
}

// FormValuesFrom pre-fills the edit form. The password is always blank.
func FormValuesFrom(e Employee) FormValues {
	return FormValues{Email: e.Email, Name: e.Name, Role: e.Role}
}

// FormMode is either Create or Edit.
type FormMode interface {
	isFormMode()
}

type Create struct{}

type Edit struct {
	Employee Employee
}

func (Create) isFormMode() {}
func (Edit) isFormMode()   {}

// Validate checks v for mode. On Edit an empty password means unchanged.
func (v FormValues) Validate(mode FormMode) validator.ValidationErrors {
	var errs validator.ValidationErrors

	validateEmail(&errs, v.Email)
	validateName(&errs, v.Name)

	switch mode.(type) {
	case Create:
		if v.Password == "" {
			errs.Add("password", "Password is required")
		} else if len(v.Password) < PasswordMinLength {
			errs.Add("password", "Password must be at least 8 characters")
		}
	case Edit:
		if v.Password != "" && len(v.Password) < PasswordMinLength {
			errs.Add("password", "Password must be at least 8 characters")
		}
	}

	if !v.Role.IsValid() {
		errs.Add("role", user.ErrInvalidRole.Error())
	}
	return errs
}

// CreateRequest builds the POST body from v.
func (v FormValues) CreateRequest() CreateEmployeeRequest {
	role := v.Role
	return CreateEmployeeRequest{Email: v.Email, Password: v.Password, Name: v.Name, Role: &role}
}

// UpdateRequest diffs v against the original employee. Only changed fields and a
// non-empty password are included; an unchanged form yields an empty patch.
func (v FormValues) UpdateRequest(original Employee) UpdateEmployeeRequest {
	req := UpdateEmployeeRequest{ID: original.ID}
	if v.Email != original.Email {
		email := v.Email
		req.Email = &email
	}
	if v.Name != original.Name {
		name := v.Name
		req.Name = &name
	}
	if v.Role != original.Role {
		role := v.Role
		req.Role = &role
	}
	if v.Password != "" {
		password := v.Password
		req.Password = &password
	}
	return req
}

// SubmitForm validates v and, only when valid, creates or updates through svc.
// Validation failures are returned as validator.ValidationErrors.
func SubmitForm(ctx context.Context, svc EmployeeService, mode FormMode, v FormValues) (Employee, error) {
	if errs := v.Validate(mode); len(errs) > 0 {
		return Employee{}, errs
	}

	switch m := mode.(type) {
	case Create:
		return svc.CreateEmployee(ctx, v.CreateRequest())
	case Edit:
		return svc.UpdateEmployee(ctx, v.UpdateRequest(m.Employee))
	default:
		return Employee{}, fmt.Errorf("unknown form mode %T", mode)
	}
}
