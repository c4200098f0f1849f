package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"memory", Config{StoreDriver: DriverMemory}},
		{"sqlite", Config{StoreDriver: DriverSQLite, DatabaseFile: filepath.Join(t.TempDir(), "auth.db")}},
		{"redis", Config{StoreDriver: DriverRedis, RedisAddr: mr.Addr(), RedisPrefix: "apptest"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			st, err := OpenStore(ctx, tt.cfg)
			require.NoError(t, err)
			defer st.Close()

			require.NoError(t, st.Ping(ctx))
			require.NoError(t, st.Users().CreateUser(ctx, storetest.NewUser("alice")))

			empty, err := st.Users().IsEmpty(ctx)
			require.NoError(t, err)
			require.False(t, empty)
		})
	}
}

func TestOpenStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := OpenStore(ctx, Config{StoreDriver: "mongo"})
	require.ErrorContains(t, err, "unknown store driver")

	_, err = OpenStore(ctx, Config{StoreDriver: DriverPostgres})
	require.ErrorContains(t, err, "AUTH_DATABASE_URL")

	_, err = OpenStore(ctx, Config{StoreDriver: DriverRedis, RedisAddr: "127.0.0.1:1"})
	require.Error(t, err)
}
