package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client talks to the anonymous routes of the service and creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// RefreshBefore is how long before access-token expiry a Session
	// refreshes. Default: 30 seconds.
	RefreshBefore time.Duration
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		RefreshBefore: 30 * time.Second,
	}
}

// Register creates a user and returns its public view.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", req)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// LoginTokens exchanges credentials for a raw token pair.
func (c *Client) LoginTokens(ctx context.Context, username, password string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Login authenticates and returns a Session holding the new token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	tokens, err := c.LoginTokens(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(*tokens), nil
}

// RefreshToken exchanges a refresh token for a new pair. The presented
// token is no longer valid afterwards.
func (c *Client) RefreshToken(ctx context.Context, userID, refreshToken string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh-token", "", RefreshTokenRequest{
		UserID:       userID,
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}
