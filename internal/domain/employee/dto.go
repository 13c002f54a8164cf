package employee

import (
	"strings"
	"unicode/utf8"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/listquery"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/pagination"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

const (
	NameMinLength     = 2
	NameMaxLength     = 255
	PasswordMinLength = 8
)

// List sort keys and filter fields understood by GET /employees.
const (
	SortByName      = "name"
	SortByEmail     = "email"
	SortByRole      = "role"
	SortByCreatedAt = "createdAt"

	FilterRole = "role"
)

// DefaultListParams is the employee list's starting parameter object.
func DefaultListParams() listquery.Params {
	return listquery.Params{
		Page:      1,
		Limit:     pagination.LimitOptions[0],
		SortBy:    SortByCreatedAt,
		SortOrder: listquery.SortDesc,
	}
}

type CreateEmployeeRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     *user.Role `json:"role,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	validateName(&errs, r.Name)
	validateEmail(&errs, r.Email)

	// Password
	if r.Password == "" {
		errs.Add("password", "Password is required")
	} else if len(r.Password) < PasswordMinLength {
		errs.Add("password", "Password must be at least 8 characters")
	}

	if r.Role != nil && !r.Role.IsValid() {
		errs.Add("role", user.ErrInvalidRole.Error())
	}

	return errs.OrNil()
}

// UpdateEmployeeRequest is the PATCH body. Nil fields are omitted and stay unchanged.
type UpdateEmployeeRequest struct {
	ID       string     `json:"-"`
	Email    *string    `json:"email,omitempty"`
	Password *string    `json:"password,omitempty"`
	Name     *string    `json:"name,omitempty"`
	Role     *user.Role `json:"role,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", ErrMissingID.Error())
	}
	if r.Name != nil {
		validateName(&errs, *r.Name)
	}
	if r.Email != nil {
		validateEmail(&errs, *r.Email)
	}
	if r.Password != nil && len(*r.Password) < PasswordMinLength {
		errs.Add("password", "Password must be at least 8 characters")
	}
	if r.Role != nil && !r.Role.IsValid() {
		errs.Add("role", user.ErrInvalidRole.Error())
	}

	return errs.OrNil()
}

// IsEmpty reports whether the patch changes nothing.
func (r *UpdateEmployeeRequest) IsEmpty() bool {
	return r.Email == nil && r.Password == nil && r.Name == nil && r.Role == nil
}

// ListResult is one page of employees.
type ListResult struct {
	Items []Employee
	Meta  pagination.Meta
}

func validateName(errs *validator.ValidationErrors, name string) {
	switch {
	case validator.IsEmpty(name):
		errs.Add("name", "Name is required")
	case !validator.LengthBetween(name, NameMinLength, NameMaxLength):
		if utf8.RuneCountInString(name) < NameMinLength {
			errs.Add("name", "Name must be at least 2 characters")
		} else {
			errs.Add("name", "Name must be less than 255 characters")
		}
	}
}

func validateEmail(errs *validator.ValidationErrors, email string) {
	switch {
	case validator.IsEmpty(email):
		errs.Add("email", "Email is required")
	case !validator.IsValidEmail(strings.TrimSpace(email)):
		errs.Add("email", "Please enter a valid email")
	}
}
