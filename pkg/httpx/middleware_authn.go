package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// AuthnMiddleware rejects requests without a valid bearer access token.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := bearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			// Inject into context for downstream handlers.
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(ctx, claims)))
		})
	}
}

// OptionalAuthnMiddleware injects claims when a valid bearer token is
// present and otherwise passes the request through anonymously.
func OptionalAuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Debug("ignoring invalid optional bearer token", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
