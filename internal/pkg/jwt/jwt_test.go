package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h", false)
	require.NoError(t, err)
	return svc.(*JWTService)
}

func TestNewJWTService_InvalidTTL(t *testing.T) {
	_, err := NewJWTService("secret", "forever", false)
	assert.Error(t, err)
}

func TestConsoleToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	admin := user.User{ID: "u-1", Email: "admin@example.com", Name: "Admin", Role: user.RoleAdmin}

	token, expiresAt, err := svc.IssueConsoleToken(admin)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	userID, err := svc.ValidateConsoleToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	svc.RevokeToken(token)
	_, err = svc.ValidateConsoleToken(token)
	assert.Error(t, err)
}

func TestValidateConsoleToken_RejectsOtherTypes(t *testing.T) {
	svc := newTestService(t)
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		"user_id": "u-1",
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateConsoleToken(token)
	assert.ErrorIs(t, err, ErrNotConsoleToken)
}

func TestCookies(t *testing.T) {
	svc := newTestService(t)

	c := svc.ConsoleCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	cleared := svc.ClearCookie()
	assert.Equal(t, CookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestPruneRevoked(t *testing.T) {
	svc := newTestService(t)
	svc.RevokeToken("a")

	assert.Equal(t, 0, svc.PruneRevoked(time.Now()))
	assert.Equal(t, 1, svc.PruneRevoked(time.Now().Add(2*time.Hour)))
	assert.False(t, svc.IsTokenRevoked("a"))
}

func TestInspect(t *testing.T) {
	backend := jwtauth.New("HS256", []byte("backend-only-secret"), nil)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	_, token, err := backend.Encode(map[string]interface{}{
		"user_id": "u-9",
		"role":    "ADMIN",
		"exp":     exp.Unix(),
	})
	require.NoError(t, err)

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", claims.Subject)
	assert.Equal(t, user.RoleAdmin, claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp))
}

func TestInspect_ExpiredTokenStillDecodes(t *testing.T) {
	backend := jwtauth.New("HS256", []byte("backend-only-secret"), nil)
	_, token, err := backend.Encode(map[string]interface{}{
		"sub": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.True(t, claims.Expired(time.Now()))
}

func TestInspect_Opaque(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.Error(t, err)

	assert.False(t, Claims{}.Expired(time.Now()))
}
