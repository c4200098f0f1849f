package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/postgres"
	redisstore "github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/redis"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/sqlite"
	goredis "github.com/redis/go-redis/v9"
)

// OpenStore connects the configured driver and applies its migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch cfg.StoreDriver {
	case DriverMemory:
		st = memory.New()
	case DriverSQLite:
		st, err = sqlite.NewStore(sqlite.DSN(cfg.DatabaseFile))
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("store driver %q requires AUTH_DATABASE_URL", cfg.StoreDriver)
		}
		st, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	case DriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			break
		}
		st = redisstore.NewStore(client, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	return st, nil
}
