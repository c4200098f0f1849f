package httpx

import (
	"net/http"
	"slices"
)

// RequireRole the caller must hold one of the provided roles. It must run
// after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserIDFromContext(r.Context()); !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			if !slices.Contains(roles, RoleFromContext(r.Context())) {
				w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
				WriteError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
