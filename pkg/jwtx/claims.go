package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Services may override them through configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 24 * time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the access-token claims shared by the auth service and any
// service verifying its tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Username of the authenticated user
	Username string `json:"username,omitempty"`

	// Role tag of the authenticated user ("User", "Admin", ...)
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds minimally-correct claims.
func NewAccessClaims(
	subject, username, role string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Username: username,
		Role:     role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn’t expired (exp) and isn’t before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now().UTC(), 0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	return c.ValidateExpiryAt(time.Now().UTC(), leeway)
}

// ValidateExpiryAt checks exp and nbf against the supplied instant. A token
// is expired from the exp instant onwards.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	// Check expired (exp)
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	// Check if a valid token isn't used before it is valid (nbf)
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
