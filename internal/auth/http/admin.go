package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

type AdminHandler struct {
	Auth *service.AuthService
}

// HandleSetPassword forces a new password on a user.
//
//	@Summary		Reset a user's password
//	@Description	Sets a new password without the current one and revokes the user's refresh token. Requires the Admin role.
//	@Tags			Admin
//	@Accept			json
//	@Param			id		path	string						true	"User id"
//	@Param			request	body	authsdk.SetPasswordRequest	true	"New password"
//	@Success		204
//	@Failure		400	{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	authsdk.ErrorResponse	"user_not_found"
//	@Security		BearerAuth
//	@Router			/api/auth/users/{id}/password [put].
func (h *AdminHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := h.Auth.AdminSetPassword(r.Context(), r.PathValue("id"), req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSetRole overwrites a user's role.
//
//	@Summary		Change a user's role
//	@Description	Overwrites the role tag. Tokens issued earlier keep the old role until they expire. Requires the Admin role.
//	@Tags			Admin
//	@Accept			json
//	@Param			id		path	string					true	"User id"
//	@Param			request	body	authsdk.SetRoleRequest	true	"New role"
//	@Success		204
//	@Failure		400	{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	authsdk.ErrorResponse	"user_not_found"
//	@Security		BearerAuth
//	@Router			/api/auth/users/{id}/role [put].
func (h *AdminHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req authsdk.SetRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w, err)
		return
	}

	if err := h.Auth.ChangeRole(r.Context(), r.PathValue("id"), req.Role); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
