package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_ACCESS_TOKEN_TTL", "AUTH_REFRESH_TOKEN_TTL",
		"AUTH_PASSWORD_MAX_AGE_DAYS", "AUTH_STORE_DRIVER", "PORT", "HOUSEKEEPING_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "sessionauth", cfg.Issuer)
	require.Equal(t, []string{"sessionauth-clients"}, cfg.Audience)
	require.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 90, cfg.PasswordMaxAgeDays)
	require.Equal(t, DriverSQLite, cfg.StoreDriver)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "https://auth.example.com")
	t.Setenv("AUTH_AUDIENCE", "web, mobile ,,")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "15m")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL", "60") // integer minutes
	t.Setenv("AUTH_PASSWORD_MAX_AGE_DAYS", "0")
	t.Setenv("AUTH_STORE_DRIVER", "Redis")
	t.Setenv("AUTH_REDIS_DB", "3")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, "https://auth.example.com", cfg.Issuer)
	require.Equal(t, []string{"web", "mobile"}, cfg.Audience)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, 0, cfg.PasswordMaxAgeDays)
	require.Equal(t, DriverRedis, cfg.StoreDriver)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, 8080, cfg.Port, "unparseable values fall back to the default")
}
