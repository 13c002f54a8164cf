package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/session"
	"github.com/go-chi/jwtauth/v5"
)

// SessionRequired admits requests carrying a valid console cookie for the
// operator currently signed in to the backend. Pages are redirected to the
// login form; fetch and event stream requests get a JSON 401.
func SessionRequired(jwtService jwt.Service, store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				reject(w, r, jwtService)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "console" {
				reject(w, r, jwtService)
				return
			}
			if raw := jwtauth.TokenFromCookie(r); raw == "" || jwtService.IsTokenRevoked(raw) {
				reject(w, r, jwtService)
				return
			}

			snap := store.Snapshot()
			userID, _ := claims["user_id"].(string)
			if !snap.IsAuthenticated || snap.User == nil || snap.User.ID != userID {
				reject(w, r, jwtService)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

func reject(w http.ResponseWriter, r *http.Request, jwtService jwt.Service) {
	http.SetCookie(w, jwtService.ClearCookie())
	if !wantsHTML(r) {
		response.HandleError(w, auth.ErrNotAuthenticated)
		return
	}
	target := "/login"
	if r.Method == http.MethodGet && r.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
