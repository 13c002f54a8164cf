package user

import "errors"

var (
	ErrAdminPrivilegeRequired = errors.New("Access denied. Admin privileges required.")
	ErrInvalidRole            = errors.New("role must be ADMIN or EMPLOYEE")
)
