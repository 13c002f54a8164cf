package jwt

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the cookie jwtauth.Verifier reads by default.
const CookieName = "jwt"

const consoleTokenType = "console"

var ErrNotConsoleToken = errors.New("token is not a console token")

type Service interface {
	IssueConsoleToken(u user.User) (token string, expiresAt int64, err error)
	ValidateConsoleToken(tokenString string) (userID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	ConsoleCookie(token string, expiresAt int64) *http.Cookie
	ClearCookie() *http.Cookie
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
	PruneRevoked(now time.Time) int
}

type JWTService struct {
	tokenTTL      time.Duration
	secureCookie  bool
	tokenAuth     *jwtauth.JWTAuth
	revokedTokens map[string]int64
	mu            sync.RWMutex
}

// NewJWTService signs console tokens with secretKey. tokenTTL is a time.ParseDuration string.
func NewJWTService(secretKey string, tokenTTL string, secureCookie bool) (Service, error) {
	ttl, err := time.ParseDuration(tokenTTL)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		tokenTTL:      ttl,
		secureCookie:  secureCookie,
		tokenAuth:     jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens: make(map[string]int64),
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// IssueConsoleToken signs the cookie token that gates the console's pages.
func (j *JWTService) IssueConsoleToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.tokenTTL).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"type":    consoleTokenType,
		"exp":     expiresAt,
	})
	return token, expiresAt, err
}

func (j *JWTService) ValidateConsoleToken(tokenString string) (userID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}
	if tokenType, ok := token.Get("type"); !ok || tokenType != consoleTokenType {
		return "", ErrNotConsoleToken
	}
	if j.IsTokenRevoked(tokenString) {
		return "", jwtauth.ErrExpired
	}
	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	userID, ok = userIDVal.(string)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}
	return userID, nil
}

func (j *JWTService) ConsoleCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// PruneRevoked forgets revocations older than the token lifetime; those tokens have expired anyway.
func (j *JWTService) PruneRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := now.Add(-j.tokenTTL).Unix()
	n := 0
	for token, revokedAt := range j.revokedTokens {
		if revokedAt < cutoff {
			delete(j.revokedTokens, token)
			n++
		}
	}
	return n
}
