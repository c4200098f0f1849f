package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers selectable with AUTH_STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Issuer   string   // Optional: iss claim (default: sessionauth)
	Audience []string // Optional: aud claim, comma separated (default: sessionauth-clients)

	SigningSecret     string // Secret material for the HS512 key, at least 32 bytes
	SigningSecretFile string // Optional: file holding the secret instead of the variable

	AccessTokenTTL     time.Duration // Optional: access token lifetime (default: 24h)
	RefreshTokenTTL    time.Duration // Optional: refresh token lifetime (default: 7 days)
	PasswordMaxAgeDays int           // Optional: password age policy for new users, <= 0 disables (default: 90)

	StoreDriver   string // Optional: memory, sqlite, postgres, redis (default: sqlite)
	DatabaseFile  string // Optional: path to SQLite database file (default: ./auth.db)
	DatabaseURL   string // Required for postgres: connection string
	RedisAddr     string // Optional: redis address (default: localhost:6379)
	RedisPassword string // Optional: redis password
	RedisDB       int    // Optional: redis database number (default: 0)
	RedisPrefix   string // Optional: key prefix (default: sessionauth)

	PepperFile    string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	AdminUsername string // Optional: first admin, created when the directory is empty
	AdminPassword string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:   getEnvOrDefault("AUTH_ISSUER", "sessionauth"),
		Audience: splitList(getEnvOrDefault("AUTH_AUDIENCE", "sessionauth-clients")),

		SigningSecret:     os.Getenv("AUTH_SIGNING_SECRET"),
		SigningSecretFile: os.Getenv("AUTH_SIGNING_SECRET_FILE"),

		AccessTokenTTL:     getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL:    getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		PasswordMaxAgeDays: getEnvIntOrDefault("AUTH_PASSWORD_MAX_AGE_DAYS", 90),

		StoreDriver:   strings.ToLower(getEnvOrDefault("AUTH_STORE_DRIVER", DriverSQLite)),
		DatabaseFile:  getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:   os.Getenv("AUTH_DATABASE_URL"),
		RedisAddr:     getEnvOrDefault("AUTH_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTH_REDIS_DB", 0),
		RedisPrefix:   getEnvOrDefault("AUTH_REDIS_PREFIX", "sessionauth"),

		PepperFile:    getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		AdminUsername: os.Getenv("AUTH_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("AUTH_ADMIN_PASSWORD"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
