package http

import (
	"io"
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

type ProfileHandler struct {
	Auth *service.AuthService
}

// HandleMe returns the caller's profile.
//
//	@Summary		Current user
//	@Tags			Profile
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"user_not_found"
//	@Security		BearerAuth
//	@Router			/api/auth/me [get].
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.Auth.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(profile))
}

// AckHandler answers with a fixed text body. It is mounted behind the
// authentication middleware as a token probe.
//
//	@Summary		Authenticated probe
//	@Tags			Profile
//	@Produce		plain
//	@Success		200	{string}	string
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"forbidden"
//	@Security		BearerAuth
//	@Router			/api/auth/ [get]
//	@Router			/api/auth/admin-only [get].
func AckHandler(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.NoCache(w)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, msg)
	}
}
