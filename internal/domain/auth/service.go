package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
)

// AuthService authenticates the console operator against the HRIS API.
type AuthService interface {
	// Login exchanges credentials for a session. Only ADMIN users are accepted.
	Login(ctx context.Context, req LoginRequest) (user.User, error)

	// Logout clears the local session. The backend keeps no session state.
	Logout(ctx context.Context)

	// CurrentUser returns the signed-in admin.
	CurrentUser(ctx context.Context) (user.User, error)
}
