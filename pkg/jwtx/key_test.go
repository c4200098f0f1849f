package jwtx_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	secret := []byte(strings.Repeat("s", jwtx.MinSecretLength))

	key, err := jwtx.DeriveKey(secret)
	require.NoError(t, err)
	require.Len(t, key, jwtx.KeySize)

	again, err := jwtx.DeriveKey(secret)
	require.NoError(t, err)
	require.Equal(t, key, again, "derivation must be deterministic")

	other, err := jwtx.DeriveKey([]byte(strings.Repeat("t", jwtx.MinSecretLength)))
	require.NoError(t, err)
	require.NotEqual(t, key, other)
}

func TestDeriveKey_WeakSecret(t *testing.T) {
	for _, secret := range []string{"", "short", strings.Repeat("s", jwtx.MinSecretLength-1)} {
		_, err := jwtx.DeriveKey([]byte(secret))
		require.ErrorIs(t, err, jwtx.ErrWeakSecret)
	}
}
