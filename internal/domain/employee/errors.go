package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrMissingID        = errors.New("employee id is required")
)
