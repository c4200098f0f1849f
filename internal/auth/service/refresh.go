package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
)

// RefreshTokenManager owns the single refresh token each user may hold.
// Only fingerprints are persisted; the opaque value leaves the process once.
type RefreshTokenManager struct {
	Users store.Users
	TTL   time.Duration
	Now   func() time.Time
}

func (m *RefreshTokenManager) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func (m *RefreshTokenManager) ttl() time.Duration {
	if m.TTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return m.TTL
}

// Generate returns 256 bits of randomness as a URL-safe string.
func (m *RefreshTokenManager) Generate() (string, error) {
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

// IssueAndStore replaces whatever refresh token the user holds with a new one.
func (m *RefreshTokenManager) IssueAndStore(ctx context.Context, userID string) (string, error) {
	token, err := m.Generate()
	if err != nil {
		return "", err
	}

	expiresAt := m.now().Add(m.ttl())
	if err := m.Users.SetRefreshToken(ctx, userID, cryptox.FingerprintToken(token), expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// Validate loads the user and checks the presented token against the stored
// fingerprint and expiry. Every failure is ErrRefreshTokenInvalid.
func (m *RefreshTokenManager) Validate(ctx context.Context, userID, presented string) (domain.User, error) {
	if userID == "" || presented == "" {
		return domain.User{}, ErrRefreshTokenInvalid
	}

	user, err := m.Users.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrRefreshTokenInvalid
	}
	if err != nil {
		return domain.User{}, err
	}

	if !user.HasRefreshToken(m.now()) {
		return domain.User{}, ErrRefreshTokenInvalid
	}
	if !cryptox.EqualFingerprints(cryptox.FingerprintToken(presented), user.RefreshTokenHash) {
		return domain.User{}, ErrRefreshTokenInvalid
	}
	return user, nil
}

// Rotate swaps the presented token for a new one. It succeeds at most once
// per presented token even under concurrent calls.
func (m *RefreshTokenManager) Rotate(ctx context.Context, userID, presented string) (string, error) {
	next, err := m.Generate()
	if err != nil {
		return "", err
	}

	now := m.now()
	err = m.Users.SwapRefreshToken(ctx, userID,
		cryptox.FingerprintToken(presented),
		cryptox.FingerprintToken(next),
		now.Add(m.ttl()), now,
	)
	if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
		return "", ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", err
	}
	return next, nil
}

// Revoke clears the refresh token. Revoking an absent token is not an error.
func (m *RefreshTokenManager) Revoke(ctx context.Context, userID string) error {
	return m.Users.ClearRefreshToken(ctx, userID)
}
