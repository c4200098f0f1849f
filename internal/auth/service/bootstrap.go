package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// BootstrapService creates the first administrator of an empty directory.
type BootstrapService struct {
	Auth     *AuthService
	Username string
	Password string
}

// EnsureAdmin creates the configured admin when no users exist yet. It
// reports whether a user was created.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	// 1. Nothing configured, nothing to do
	if s.Username == "" || s.Password == "" {
		return false, nil
	}

	// 2. Only an empty directory is bootstrapped
	empty, err := s.Auth.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		l.Debug("directory not empty, skipping admin bootstrap")
		return false, nil
	}

	// 3. Create admin user
	profile, err := s.Auth.Register(ctx, s.Username, s.Password, domain.RoleAdmin)
	if errors.Is(err, ErrUsernameTaken) {
		// another instance won the race
		return false, nil
	}
	if err != nil {
		l.Error("failed to create admin user", slog.Any("error", err))
		return false, err
	}

	l.Info("bootstrapped admin user", slog.String("admin_user_id", profile.ID))
	return true, nil
}
