package auth

import (
	"errors"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotAuthenticated   = errors.New("not signed in")
	// ErrAccessDenied is returned when the backend accepts credentials that do not belong to an admin.
	ErrAccessDenied = user.ErrAdminPrivilegeRequired
)
