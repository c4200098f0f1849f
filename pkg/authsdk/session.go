package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session holds a token pair and refreshes it before the access token
// expires. It is safe for concurrent use.
type Session struct {
	client *Client

	mu           sync.RWMutex
	userID       string
	accessToken  string
	refreshToken string
	expiresAt    time.Time // zero when the token carries no readable exp
}

// NewSession wraps an existing token pair. The user id and expiry are read
// from the access token without verifying it; the server remains the
// authority on whether the token is valid.
func (c *Client) NewSession(tokens TokenResponse) *Session {
	s := &Session{client: c}
	s.setTokens(tokens)
	return s
}

// setTokens stores a new pair. Caller must hold the write lock or own s.
func (s *Session) setTokens(tokens TokenResponse) {
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.expiresAt = time.Time{}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokens.AccessToken, &claims); err != nil {
		return
	}

	if claims.Subject != "" {
		s.userID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Add(-s.client.RefreshBefore)
	}
}

// fresh reports whether the access token can be used as is.
func (s *Session) fresh() bool {
	return s.expiresAt.IsZero() || time.Now().Before(s.expiresAt)
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.fresh() {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if s.fresh() {
		return s.accessToken, nil
	}

	if err := s.refreshLocked(ctx); err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	return s.accessToken, nil
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return errors.New("no refresh token available")
	}

	tokens, err := s.client.RefreshToken(ctx, s.userID, s.refreshToken)
	if err != nil {
		return err
	}
	s.setTokens(*tokens)
	return nil
}

// Refresh rotates the token pair now regardless of access-token expiry.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// UserID returns the subject of the current access token.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// ExpiresAt returns when the session will next refresh. Zero means unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// doJSON sends an authenticated request.
func (s *Session) doJSON(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.doJSON(ctx, method, path, token, payload)
}
