package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly keeps non-admin console tokens out. Login already refuses them,
// so this only trips on tokens signed before a role change.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrNotAuthenticated)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || !user.HasPermission(user.Role(role), user.PermissionConsoleAccess) {
			response.HandleError(w, auth.ErrAccessDenied)
			return
		}

		next.ServeHTTP(w, r)
	})
}
