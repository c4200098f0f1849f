// Package storetest is a conformance suite shared by every store driver.
package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated and empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

// base is a fixed instant with millisecond precision so every driver can
// round-trip it exactly.
var base = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

// NewUser returns a minimal valid user.
func NewUser(username string) domain.User {
	return domain.User{
		ID:                 idx.New().String(),
		Username:           username,
		PasswordHash:       "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		Role:               domain.RoleUser,
		PasswordChangedAt:  base,
		PasswordMaxAgeDays: domain.DefaultPasswordMaxAgeDays,
		CreatedAt:          base,
		UpdatedAt:          base,
	}
}

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	open := func(t *testing.T) (context.Context, store.Users) {
		s := newStore(t)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.Ping(context.Background()))
		return context.Background(), s.Users()
	}

	t.Run("create and get", func(t *testing.T) {
		ctx, users := open(t)

		empty, err := users.IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)

		u := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, u))

		byID, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Username, byID.Username)
		require.Equal(t, u.PasswordHash, byID.PasswordHash)
		require.Equal(t, u.Role, byID.Role)
		require.Equal(t, u.PasswordMaxAgeDays, byID.PasswordMaxAgeDays)
		require.True(t, u.PasswordChangedAt.Equal(byID.PasswordChangedAt))
		require.Empty(t, byID.RefreshTokenHash)
		require.Nil(t, byID.RefreshTokenExpiresAt)

		byName, err := users.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, byName.ID)

		exists, err := users.UsernameExists(ctx, "alice")
		require.NoError(t, err)
		require.True(t, exists)

		empty, err = users.IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctx, users := open(t)
		missing := idx.New().String()

		_, err := users.GetUserByID(ctx, missing)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = users.GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)

		exists, err := users.UsernameExists(ctx, "nobody")
		require.NoError(t, err)
		require.False(t, exists)

		require.ErrorIs(t, users.UpdatePassword(ctx, missing, "h", base), store.ErrNotFound)
		require.ErrorIs(t, users.UpdatePasswordHash(ctx, missing, "h"), store.ErrNotFound)
		require.ErrorIs(t, users.UpdateRole(ctx, missing, domain.RoleAdmin), store.ErrNotFound)
		require.ErrorIs(t, users.SetRefreshToken(ctx, missing, "fp", base.Add(time.Hour)), store.ErrNotFound)
		require.ErrorIs(t, users.SwapRefreshToken(ctx, missing, "fp", "next", base.Add(time.Hour), base), store.ErrNotFound)
		require.ErrorIs(t, users.ClearRefreshToken(ctx, missing), store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		ctx, users := open(t)

		first := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, first))
		require.ErrorIs(t, users.CreateUser(ctx, NewUser("alice")), store.ErrAlreadyExists)

		got, err := users.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, first.ID, got.ID, "first record must be unchanged")
	})

	t.Run("usernames are case-sensitive", func(t *testing.T) {
		ctx, users := open(t)

		require.NoError(t, users.CreateUser(ctx, NewUser("alice")))
		require.NoError(t, users.CreateUser(ctx, NewUser("Alice")))

		_, err := users.GetUserByUsername(ctx, "ALICE")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("refresh token lifecycle", func(t *testing.T) {
		ctx, users := open(t)
		u := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, u))

		exp := base.Add(7 * 24 * time.Hour)
		require.NoError(t, users.SetRefreshToken(ctx, u.ID, "fp-1", exp))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "fp-1", got.RefreshTokenHash)
		require.NotNil(t, got.RefreshTokenExpiresAt)
		require.True(t, exp.Equal(*got.RefreshTokenExpiresAt))

		require.NoError(t, users.ClearRefreshToken(ctx, u.ID))
		got, err = users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, got.RefreshTokenHash)
		require.Nil(t, got.RefreshTokenExpiresAt)

		require.NoError(t, users.ClearRefreshToken(ctx, u.ID), "clearing twice is fine")
	})

	t.Run("swap refresh token", func(t *testing.T) {
		ctx, users := open(t)
		u := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, u))

		exp := base.Add(time.Hour)
		require.NoError(t, users.SetRefreshToken(ctx, u.ID, "fp-1", exp))

		next := base.Add(2 * time.Hour)
		require.NoError(t, users.SwapRefreshToken(ctx, u.ID, "fp-1", "fp-2", next, base))
		require.ErrorIs(t, users.SwapRefreshToken(ctx, u.ID, "fp-1", "fp-3", next, base), store.ErrConflict, "old token is single-use")

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "fp-2", got.RefreshTokenHash)
		require.True(t, next.Equal(*got.RefreshTokenExpiresAt))

		// expired tokens cannot be swapped
		require.ErrorIs(t, users.SwapRefreshToken(ctx, u.ID, "fp-2", "fp-4", next.Add(time.Hour), next), store.ErrConflict)

		// nor can a cleared one
		require.NoError(t, users.ClearRefreshToken(ctx, u.ID))
		require.ErrorIs(t, users.SwapRefreshToken(ctx, u.ID, "", "fp-5", next, base), store.ErrConflict)
	})

	t.Run("concurrent swap has one winner", func(t *testing.T) {
		ctx, users := open(t)
		u := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, u))
		require.NoError(t, users.SetRefreshToken(ctx, u.ID, "fp-0", base.Add(time.Hour)))

		const n = 8
		var (
			wg                  sync.WaitGroup
			success, conflicted atomic.Int32
		)
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := users.SwapRefreshToken(ctx, u.ID, "fp-0", idx.New().String(), base.Add(2*time.Hour), base)
				switch {
				case err == nil:
					success.Add(1)
				case errors.Is(err, store.ErrConflict):
					conflicted.Add(1)
				}
			}()
		}
		wg.Wait()
		require.EqualValues(t, n-1, conflicted.Load())
		require.EqualValues(t, 1, success.Load())
	})

	t.Run("update password revokes refresh token", func(t *testing.T) {
		ctx, users := open(t)
		u := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, u))
		require.NoError(t, users.SetRefreshToken(ctx, u.ID, "fp-1", base.Add(time.Hour)))

		changed := base.Add(24 * time.Hour)
		require.NoError(t, users.UpdatePassword(ctx, u.ID, "new-hash", changed))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.True(t, changed.Equal(got.PasswordChangedAt))
		require.Empty(t, got.RefreshTokenHash)
		require.Nil(t, got.RefreshTokenExpiresAt)
	})

	t.Run("update password hash keeps session", func(t *testing.T) {
		ctx, users := open(t)
		u := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, u))
		require.NoError(t, users.SetRefreshToken(ctx, u.ID, "fp-1", base.Add(time.Hour)))

		require.NoError(t, users.UpdatePasswordHash(ctx, u.ID, "rehashed"))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "rehashed", got.PasswordHash)
		require.True(t, base.Equal(got.PasswordChangedAt))
		require.Equal(t, "fp-1", got.RefreshTokenHash)
	})

	t.Run("update role", func(t *testing.T) {
		ctx, users := open(t)
		u := NewUser("alice")
		require.NoError(t, users.CreateUser(ctx, u))
		require.NoError(t, users.SetRefreshToken(ctx, u.ID, "fp-1", base.Add(time.Hour)))

		require.NoError(t, users.UpdateRole(ctx, u.ID, domain.RoleAdmin))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, got.Role)
		require.Equal(t, "fp-1", got.RefreshTokenHash, "role change leaves the session alone")
	})

	t.Run("clear expired refresh tokens", func(t *testing.T) {
		ctx, users := open(t)

		expired := NewUser("expired")
		boundary := NewUser("boundary")
		active := NewUser("active")
		none := NewUser("none")
		for _, u := range []domain.User{expired, boundary, active, none} {
			require.NoError(t, users.CreateUser(ctx, u))
		}
		require.NoError(t, users.SetRefreshToken(ctx, expired.ID, "fp-e", base.Add(-time.Hour)))
		require.NoError(t, users.SetRefreshToken(ctx, boundary.ID, "fp-b", base))
		require.NoError(t, users.SetRefreshToken(ctx, active.ID, "fp-a", base.Add(time.Hour)))

		n, err := users.ClearExpiredRefreshTokens(ctx, base)
		require.NoError(t, err)
		require.EqualValues(t, 2, n)

		for _, id := range []string{expired.ID, boundary.ID} {
			got, err := users.GetUserByID(ctx, id)
			require.NoError(t, err)
			require.Empty(t, got.RefreshTokenHash)
			require.Nil(t, got.RefreshTokenExpiresAt)
		}

		got, err := users.GetUserByID(ctx, active.ID)
		require.NoError(t, err)
		require.Equal(t, "fp-a", got.RefreshTokenHash)
	})
}
