package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	created, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, created)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, created, loaded, "second call must reuse the stored pepper")
}

func TestLoadOrCreatePepper_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := LoadOrCreatePepper(path)
	require.Error(t, err)
}
