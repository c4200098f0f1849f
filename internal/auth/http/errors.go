package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// serviceErrors maps engine failures to their HTTP status.
var serviceErrors = []struct {
	err  error
	code int
	desc string
}{
	{service.ErrInvalidRequest, http.StatusBadRequest, "username, password and role must not be blank"},
	{service.ErrUsernameTaken, http.StatusBadRequest, "username already taken"},
	{service.ErrInvalidCredentials, http.StatusBadRequest, "invalid username or password"},
	{service.ErrPasswordIncorrect, http.StatusBadRequest, "current password is incorrect"},
	{service.ErrRefreshTokenInvalid, http.StatusUnauthorized, "invalid refresh token"},
	{service.ErrUserNotFound, http.StatusNotFound, "user not found"},
}

// writeServiceError writes the response for an error returned by the
// engine. Anything unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			httpx.WriteError(w, e.code, e.err.Error(), e.desc)
			return
		}
	}

	slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
	httpx.WriteError(w, http.StatusInternalServerError, authsdk.ErrorCodeServerError, "internal server error")
}

// writeBadBody reports an undecodable request body.
func writeBadBody(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, err.Error())
}

// currentUser returns the authenticated subject. Routes using it sit
// behind httpx.AuthnMiddleware, so a missing subject is a wiring bug.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, "missing bearer token")
	}
	return userID, ok
}
