package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/session"
)

type AuthServiceImpl struct {
	api   *apiclient.Client
	store *session.Store
}

func NewAuthService(api *apiclient.Client, store *session.Store) auth.AuthService {
	return &AuthServiceImpl{api: api, store: store}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	resp, err := a.api.Request(ctx, http.MethodPost, "/auth/login", req, nil)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return user.User{}, auth.ErrInvalidCredentials
		}
		return user.User{}, err
	}

	var out auth.LoginResponse
	if err := resp.Into(&out); err != nil {
		return user.User{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	if out.AccessToken == "" {
		return user.User{}, auth.ErrInvalidToken
	}

	if !out.User.IsAdmin() {
		slog.Warn("Login refused for non-admin user", "user_id", out.User.ID, "role", out.User.Role)
		return user.User{}, auth.ErrAccessDenied
	}

	a.store.Login(out.AccessToken, out.User)
	slog.Info("Admin signed in", "user_id", out.User.ID, "email", out.User.Email)
	return out.User, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context) {
	if snap := a.store.Snapshot(); snap.User != nil {
		slog.Info("Admin signed out", "user_id", snap.User.ID)
	}
	a.store.Logout()
}

// CurrentUser implements auth.AuthService.
func (a *AuthServiceImpl) CurrentUser(ctx context.Context) (user.User, error) {
	snap := a.store.Snapshot()
	if !snap.IsAuthenticated {
		return user.User{}, auth.ErrNotAuthenticated
	}
	return *snap.User, nil
}
