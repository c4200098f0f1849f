package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestBootstrapService_EnsureAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := &service.BootstrapService{Auth: h.auth, Username: "root", Password: "changeme"}

	created, err := b.EnsureAdmin(ctx)
	require.NoError(t, err)
	require.True(t, created)

	u, err := h.store.Users().GetUserByUsername(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)

	_, err = h.auth.Login(ctx, "root", "changeme")
	require.NoError(t, err)

	// second run is a no-op
	created, err = b.EnsureAdmin(ctx)
	require.NoError(t, err)
	require.False(t, created)
}

func TestBootstrapService_SkipsWhenNotEmpty(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	register(t, h, "alice", "pw")

	b := &service.BootstrapService{Auth: h.auth, Username: "root", Password: "changeme"}
	created, err := b.EnsureAdmin(ctx)
	require.NoError(t, err)
	require.False(t, created)

	exists, err := h.store.Users().UsernameExists(ctx, "root")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestBootstrapService_Unconfigured(t *testing.T) {
	h := newHarness(t)

	for _, b := range []*service.BootstrapService{
		{Auth: h.auth},
		{Auth: h.auth, Username: "root"},
		{Auth: h.auth, Password: "changeme"},
	} {
		created, err := b.EnsureAdmin(context.Background())
		require.NoError(t, err)
		require.False(t, created)
	}

	empty, err := h.store.Users().IsEmpty(context.Background())
	require.NoError(t, err)
	require.True(t, empty)
}
