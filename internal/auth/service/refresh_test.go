package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/storetest"
	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenManager_Generate(t *testing.T) {
	m := &service.RefreshTokenManager{}

	seen := make(map[string]struct{})
	for range 100 {
		tok, err := m.Generate()
		require.NoError(t, err)
		require.Len(t, tok, 43, "256 bits as unpadded base64url")
		require.NotContains(t, seen, tok)
		seen[tok] = struct{}{}
	}
}

func TestRefreshTokenManager_IssueAndStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u := storetest.NewUser("alice")
	require.NoError(t, h.store.Users().CreateUser(ctx, u))

	tok, err := h.auth.RefreshTokens.IssueAndStore(ctx, u.ID)
	require.NoError(t, err)

	stored, err := h.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, cryptox.FingerprintToken(tok), stored.RefreshTokenHash)
	require.NotEqual(t, tok, stored.RefreshTokenHash, "raw token is never stored")
	require.Equal(t, h.clock.Now().Add(7*24*time.Hour), *stored.RefreshTokenExpiresAt)
}

func TestRefreshTokenManager_Validate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.auth.RefreshTokens

	u := storetest.NewUser("alice")
	require.NoError(t, h.store.Users().CreateUser(ctx, u))

	noToken := storetest.NewUser("bob")
	require.NoError(t, h.store.Users().CreateUser(ctx, noToken))

	tok, err := m.IssueAndStore(ctx, u.ID)
	require.NoError(t, err)

	got, err := m.Validate(ctx, u.ID, tok)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	tests := []struct {
		name   string
		userID string
		token  string
	}{
		{"unknown user", "01J00000000000000000000000", tok},
		{"malformed user id", "not-an-id", tok},
		{"no stored token", noToken.ID, tok},
		{"mismatch", u.ID, tok + "x"},
		{"prefix", u.ID, tok[:20]},
		{"empty token", u.ID, ""},
		{"empty user", "", tok},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(ctx, tt.userID, tt.token)
			require.ErrorIs(t, err, service.ErrRefreshTokenInvalid)
		})
	}
}

func TestRefreshTokenManager_ValidateExpiry(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.auth.RefreshTokens

	u := storetest.NewUser("alice")
	require.NoError(t, h.store.Users().CreateUser(ctx, u))
	tok, err := m.IssueAndStore(ctx, u.ID)
	require.NoError(t, err)

	h.clock.Advance(7*24*time.Hour - time.Millisecond)
	_, err = m.Validate(ctx, u.ID, tok)
	require.NoError(t, err)

	h.clock.Advance(time.Millisecond)
	_, err = m.Validate(ctx, u.ID, tok)
	require.ErrorIs(t, err, service.ErrRefreshTokenInvalid, "expiry instant is already invalid")
}

func TestRefreshTokenManager_RotateIsSingleUse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.auth.RefreshTokens

	u := storetest.NewUser("alice")
	require.NoError(t, h.store.Users().CreateUser(ctx, u))
	tok, err := m.IssueAndStore(ctx, u.ID)
	require.NoError(t, err)

	next, err := m.Rotate(ctx, u.ID, tok)
	require.NoError(t, err)
	require.NotEqual(t, tok, next)

	_, err = m.Rotate(ctx, u.ID, tok)
	require.ErrorIs(t, err, service.ErrRefreshTokenInvalid)

	_, err = m.Validate(ctx, u.ID, next)
	require.NoError(t, err)
}

func TestRefreshTokenManager_Revoke(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.auth.RefreshTokens

	u := storetest.NewUser("alice")
	require.NoError(t, h.store.Users().CreateUser(ctx, u))
	tok, err := m.IssueAndStore(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, u.ID))
	_, err = m.Validate(ctx, u.ID, tok)
	require.ErrorIs(t, err, service.ErrRefreshTokenInvalid)

	stored, err := h.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, stored.RefreshTokenHash)
	require.Nil(t, stored.RefreshTokenExpiresAt)
}
