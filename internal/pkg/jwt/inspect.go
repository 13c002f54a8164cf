package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims are the parts of a backend access token the console reads.
type Claims struct {
	Subject   string
	Role      user.Role
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect decodes a backend access token without verifying its signature.
// The console never holds the backend's key; it reads the claims only to
// discard sessions that can no longer authenticate.
func Inspect(token string) (Claims, error) {
	tok, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return Claims{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	claims := Claims{
		Subject:   tok.Subject(),
		ExpiresAt: tok.Expiration(),
	}
	if claims.Subject == "" {
		if v, ok := tok.Get("user_id"); ok {
			claims.Subject, _ = v.(string)
		}
	}
	if v, ok := tok.Get("role"); ok {
		if role, ok := v.(string); ok {
			claims.Role = user.Role(role)
		}
	}
	return claims, nil
}
