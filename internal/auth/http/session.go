package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

type SessionHandler struct {
	Auth *service.AuthService
}

func toUserResponse(p domain.Profile) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:                 p.ID,
		Username:           p.Username,
		Role:               p.Role,
		PasswordChangedAt:  p.PasswordChangedAt,
		PasswordMaxAgeDays: p.PasswordMaxAgeDays,
	}
}

// HandleRegister creates a user.
//
//	@Summary		Register a user
//	@Description	Creates a user with a hashed password. The role field is only honoured for callers holding the Admin role; everyone else is registered as User.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"Credentials and optional role"
//	@Success		200		{object}	authsdk.UserResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"username_taken or invalid_request"
//	@Router			/api/auth/register [post].
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	role := domain.RoleUser
	if httpx.RoleFromContext(r.Context()) == domain.RoleAdmin && req.Role != "" {
		role = req.Role
	}

	profile, err := h.Auth.Register(r.Context(), req.Username, req.Password, role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(profile))
}

// HandleLogin exchanges credentials for a token pair.
//
//	@Summary		Log in
//	@Description	Verifies the password and returns an access token with a new single-use refresh token. Any previous refresh token is replaced.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Router			/api/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	pair, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleRefresh rotates a refresh token.
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a refresh token for a new pair. The presented token is consumed and rejected on reuse.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshTokenRequest	true	"User id and refresh token"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_refresh_token"
//	@Router			/api/auth/refresh-token [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshTokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	pair, err := h.Auth.Refresh(r.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// HandleSignOut revokes the caller's refresh token.
//
//	@Summary		Sign out
//	@Description	Revokes the refresh token. Access tokens remain valid until they expire.
//	@Tags			Session
//	@Success		204
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Security		BearerAuth
//	@Router			/api/auth/signout [post].
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Auth.SignOut(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
