package app

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
)

// ErrNoSigningSecret is returned outside dev and test when neither
// AUTH_SIGNING_SECRET nor AUTH_SIGNING_SECRET_FILE is set.
var ErrNoSigningSecret = errors.New("app: no signing secret configured")

// LoadSigningKey derives the HS512 key from the configured secret.
//
// Sources, first match wins:
//   - AUTH_SIGNING_SECRET_FILE: file contents with surrounding whitespace trimmed
//   - AUTH_SIGNING_SECRET: the variable itself
//   - dev and test only: a random ephemeral secret. Tokens do not survive a
//     restart.
func LoadSigningKey(cfg Config, logger *slog.Logger) ([]byte, error) {
	secret, err := signingSecret(cfg)
	if err != nil {
		return nil, err
	}

	if secret == nil {
		if cfg.Env != "dev" && cfg.Env != "test" {
			return nil, ErrNoSigningSecret
		}

		secret = make([]byte, jwtx.KeySize)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate ephemeral secret: %w", err)
		}
		logger.Warn("no signing secret configured, using an ephemeral key", "env", cfg.Env)
	}

	key, err := jwtx.DeriveKey(secret)
	if err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	return key, nil
}

func signingSecret(cfg Config) ([]byte, error) {
	if cfg.SigningSecretFile != "" {
		data, err := os.ReadFile(cfg.SigningSecretFile)
		if err != nil {
			return nil, fmt.Errorf("read signing secret: %w", err)
		}
		return []byte(strings.TrimSpace(string(data))), nil
	}

	if cfg.SigningSecret != "" {
		return []byte(cfg.SigningSecret), nil
	}
	return nil, nil
}
