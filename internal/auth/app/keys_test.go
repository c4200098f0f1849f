package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadSigningKey(t *testing.T) {
	secret := strings.Repeat("s", 40)

	fromEnv, err := LoadSigningKey(Config{SigningSecret: secret, Env: "prod"}, discard)
	require.NoError(t, err)
	require.Len(t, fromEnv, jwtx.KeySize)

	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte(secret+"\n"), 0o600))

	fromFile, err := LoadSigningKey(Config{SigningSecretFile: path, SigningSecret: "ignored", Env: "prod"}, discard)
	require.NoError(t, err)
	require.Equal(t, fromEnv, fromFile, "file wins and trailing newline is trimmed")
}

func TestLoadSigningKey_Errors(t *testing.T) {
	_, err := LoadSigningKey(Config{SigningSecret: "short", Env: "prod"}, discard)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)

	_, err = LoadSigningKey(Config{Env: "prod"}, discard)
	require.ErrorIs(t, err, ErrNoSigningSecret)

	_, err = LoadSigningKey(Config{SigningSecretFile: filepath.Join(t.TempDir(), "missing"), Env: "dev"}, discard)
	require.Error(t, err)
}

func TestLoadSigningKey_EphemeralInDev(t *testing.T) {
	a, err := LoadSigningKey(Config{Env: "dev"}, discard)
	require.NoError(t, err)
	b, err := LoadSigningKey(Config{Env: "test"}, discard)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
