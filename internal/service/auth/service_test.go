package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/session"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T, handler http.HandlerFunc) (auth.AuthService, *session.Store, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store := session.NewStore()
	api, err := apiclient.New(apiclient.Config{Name: "api", BaseURL: srv.URL}, session.TokenSource(store), store, nil)
	require.NoError(t, err)
	return NewAuthService(api, store), store, &calls
}

func loginHandler(role user.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if r.URL.Path != "/auth/login" || req.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"statusCode":401,"message":"Invalid credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "backend-token",
			"user":         map[string]any{"id": "u-1", "email": req.Email, "name": "Admin", "role": role},
		})
	}
}

func TestLogin_Admin(t *testing.T) {
	svc, store, _ := setupAuth(t, loginHandler(user.RoleAdmin))

	u, err := svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "backend-token", snap.Token)

	current, err := svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", current.Email)
}

func TestLogin_NonAdminIsRefused(t *testing.T) {
	svc, store, _ := setupAuth(t, loginHandler(user.RoleEmployee))

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "emp@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, auth.ErrAccessDenied)
	assert.Equal(t, "Access denied. Admin privileges required.", err.Error())

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, store, _ := setupAuth(t, loginHandler(user.RoleAdmin))

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.False(t, store.IsAuthenticated())
}

func TestLogin_ValidationNeverReachesAPI(t *testing.T) {
	svc, _, calls := setupAuth(t, loginHandler(user.RoleAdmin))

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "not-an-email"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, map[string]string{
		"email":    "Please enter a valid email",
		"password": "Password is required",
	}, verrs.ToMap())
	assert.Equal(t, 0, *calls)
}

func TestLogout(t *testing.T) {
	svc, store, _ := setupAuth(t, loginHandler(user.RoleAdmin))
	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)

	svc.Logout(context.Background())
	assert.False(t, store.IsAuthenticated())

	_, err = svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}
