package authsdk

import (
	"context"
	"net/http"
)

// Ping calls the authenticated acknowledgment route.
func (s *Session) Ping(ctx context.Context) (string, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/api/auth/", nil)
	if err != nil {
		return "", err
	}
	return decodeText(resp)
}

// AdminOnly calls the acknowledgment route reserved for administrators.
func (s *Session) AdminOnly(ctx context.Context) (string, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/api/auth/admin-only", nil)
	if err != nil {
		return "", err
	}
	return decodeText(resp)
}

// Me returns the signed-in user.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckPassword re-verifies password and reports the password age policy.
func (s *Session) CheckPassword(ctx context.Context, password string) (*CheckPasswordResponse, error) {
	resp, err := s.doJSON(ctx, http.MethodPost, "/api/auth/check-password", CheckPasswordRequest{
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var status CheckPasswordResponse
	if err := decodeJSON(resp, &status, http.StatusOK); err != nil {
		return nil, err
	}
	return &status, nil
}

// ChangePassword replaces the password. The server revokes the refresh
// token, so the session can no longer refresh; log in again afterwards.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	resp, err := s.doJSON(ctx, http.MethodPost, "/api/auth/change-password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// SignOut revokes the refresh token on the server and forgets it locally.
// The access token stays usable until it expires.
func (s *Session) SignOut(ctx context.Context) error {
	resp, err := s.doJSON(ctx, http.MethodPost, "/api/auth/signout", nil)
	if err != nil {
		return err
	}
	if err := checkStatusNoContent(resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}
