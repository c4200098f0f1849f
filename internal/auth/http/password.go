package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

type PasswordHandler struct {
	Auth *service.AuthService
}

// HandleCheck re-verifies the caller's password.
//
//	@Summary		Check password
//	@Description	Verifies the password and reports the password age policy. valid is true only when the password matches and has not expired.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CheckPasswordRequest	true	"Password"
//	@Success		200		{object}	authsdk.CheckPasswordResponse
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_token"
//	@Security		BearerAuth
//	@Router			/api/auth/check-password [post].
func (h *PasswordHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req authsdk.CheckPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	res, err := h.Auth.CheckPassword(r.Context(), userID, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.CheckPasswordResponse{
		Valid:              res.Valid,
		PasswordChangedAt:  res.PasswordChangedAt,
		PasswordMaxAgeDays: res.PasswordMaxAgeDays,
		ExpiresAt:          res.ExpiresAt,
		IsExpired:          res.IsExpired,
		DaysRemaining:      res.DaysRemaining,
	})
}

// HandleChange replaces the caller's password.
//
//	@Summary		Change password
//	@Description	Replaces the password after checking the current one. The refresh token is revoked.
//	@Tags			Password
//	@Accept			json
//	@Param			request	body	authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204
//	@Failure		400	{object}	authsdk.ErrorResponse	"password_incorrect or invalid_request"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Security		BearerAuth
//	@Router			/api/auth/change-password [post].
func (h *PasswordHandler) HandleChange(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req authsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := h.Auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
