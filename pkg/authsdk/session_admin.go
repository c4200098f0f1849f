package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Register creates a user as the signed-in administrator, which lets
// req.Role take effect.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetUserPassword forces a new password on userID and revokes its refresh
// token. Requires the Admin role.
func (s *Session) SetUserPassword(ctx context.Context, userID, newPassword string) error {
	resp, err := s.doJSON(ctx, http.MethodPut, "/api/auth/users/"+url.PathEscape(userID)+"/password", SetPasswordRequest{
		NewPassword: newPassword,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// SetUserRole overwrites the role of userID. Requires the Admin role.
func (s *Session) SetUserRole(ctx context.Context, userID, role string) error {
	resp, err := s.doJSON(ctx, http.MethodPut, "/api/auth/users/"+url.PathEscape(userID)+"/role", SetRoleRequest{
		Role: role,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
