package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingService_ClearsExpiredRefreshTokens(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	users := h.store.Users()

	stale := storetest.NewUser("stale")
	fresh := storetest.NewUser("fresh")
	require.NoError(t, users.CreateUser(ctx, stale))
	require.NoError(t, users.CreateUser(ctx, fresh))

	now := h.clock.Now()
	require.NoError(t, users.SetRefreshToken(ctx, stale.ID, "a", now.Add(-time.Minute)))
	require.NoError(t, users.SetRefreshToken(ctx, fresh.ID, "b", now.Add(time.Hour)))

	hk := service.NewHousekeepingService(h.store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)
	hk.Now = h.clock.Now
	hk.Start()
	hk.Stop() // waits for the initial sweep

	got, err := users.GetUserByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Empty(t, got.RefreshTokenHash)
	require.Nil(t, got.RefreshTokenExpiresAt)

	got, err = users.GetUserByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, "b", got.RefreshTokenHash)
}

func TestNewHousekeepingService_DefaultInterval(t *testing.T) {
	hk := service.NewHousekeepingService(nil, slog.Default(), 0)
	require.Equal(t, time.Hour, hk.Interval)
}
