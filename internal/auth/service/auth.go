package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/idx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// MaxPasswordLength bounds the input handed to the password hash.
const MaxPasswordLength = 1024

// PasswordHasher is satisfied by *cryptox.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
	NeedsRehash(encoded string) bool
}

// AuthService is the session engine: it registers users, exchanges
// passwords and refresh tokens for token pairs, and manages password and
// role changes.
type AuthService struct {
	Store         store.Store
	Hasher        PasswordHasher
	Tokens        *TokenIssuer
	RefreshTokens *RefreshTokenManager

	// PasswordMaxAgeDays is applied to newly registered users.
	PasswordMaxAgeDays int

	Now func() time.Time

	// dummyHash is verified against when the username is unknown.
	dummyOnce sync.Once
	dummyHash string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func validPassword(p string) bool { return !blank(p) && len(p) <= MaxPasswordLength }

// Register creates a user. An empty role means domain.RoleUser.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (domain.Profile, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate input
	if blank(username) || !validPassword(password) {
		return domain.Profile{}, ErrInvalidRequest
	}
	if blank(role) {
		role = domain.RoleUser
	}

	// 2. Cheap duplicate check before paying for the hash
	taken, err := s.Store.Users().UsernameExists(ctx, username)
	if err != nil {
		return domain.Profile{}, err
	}
	if taken {
		return domain.Profile{}, ErrUsernameTaken
	}

	// 3. Hash password
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.Profile{}, err
	}

	// 4. Create user; the store enforces uniqueness against concurrent registrations
	now := s.now()
	user := domain.User{
		ID:                 idx.New().String(),
		Username:           username,
		PasswordHash:       hash,
		Role:               role,
		PasswordChangedAt:  now,
		PasswordMaxAgeDays: s.PasswordMaxAgeDays,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, ErrUsernameTaken
		}
		return domain.Profile{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID), slog.String("role", role))
	return user.Profile(), nil
}

// Login exchanges a username and password for a token pair. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if blank(username) || !validPassword(password) {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		s.Hasher.Verify(password, s.dummy())
		l.Info("login failed", slog.String("reason", "unknown user"))
		return domain.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.TokenPair{}, err
	}

	if !s.Hasher.Verify(password, user.PasswordHash) {
		l.Info("login failed", slog.String("user_id", user.ID), slog.String("reason", "password mismatch"))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	if s.Hasher.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user.ID, password)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed; replaying it fails.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.RefreshTokens.Validate(ctx, userID, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenInvalid) {
			l.Info("refresh rejected", slog.String("user_id", userID))
		}
		return domain.TokenPair{}, err
	}

	access, err := s.Tokens.IssueAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return domain.TokenPair{}, err
	}

	next, err := s.RefreshTokens.Rotate(ctx, user.ID, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshTokenInvalid) {
			l.Warn("refresh lost rotation race", slog.String("user_id", user.ID))
		}
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: next}, nil
}

// CheckPassword re-verifies a password and reports its age policy. Valid is
// true only when the password matches and has not expired.
func (s *AuthService) CheckPassword(ctx context.Context, userID, password string) (domain.PasswordCheck, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.PasswordCheck{}, err
	}

	matches := validPassword(password) && s.Hasher.Verify(password, user.PasswordHash)
	status := EvaluatePassword(user.PasswordChangedAt, user.PasswordMaxAgeDays, s.now())

	return domain.PasswordCheck{
		Valid:              matches && !status.IsExpired,
		PasswordChangedAt:  user.PasswordChangedAt,
		PasswordMaxAgeDays: user.PasswordMaxAgeDays,
		PasswordStatus:     status,
	}, nil
}

// ChangePassword replaces the password after checking the current one and
// signs the user out of any refresh session.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if !validPassword(next) {
		return ErrInvalidRequest
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if !s.Hasher.Verify(current, user.PasswordHash) {
		slogx.FromContext(ctx).Info("password change rejected", slog.String("user_id", user.ID))
		return ErrPasswordIncorrect
	}

	return s.setPassword(ctx, user, next)
}

// SignOut revokes the refresh token. Unknown users and users without a
// token are silently accepted.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	err := s.RefreshTokens.Revoke(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// AdminSetPassword forces a new password without knowing the old one.
func (s *AuthService) AdminSetPassword(ctx context.Context, userID, next string) error {
	if !validPassword(next) {
		return ErrInvalidRequest
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.setPassword(ctx, user, next); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset by admin", slog.String("user_id", user.ID))
	return nil
}

// ChangeRole overwrites the role tag. Access tokens already issued keep the
// old role until they expire.
func (s *AuthService) ChangeRole(ctx context.Context, userID, role string) error {
	if blank(role) {
		return ErrInvalidRequest
	}

	err := s.Store.Users().UpdateRole(ctx, userID, role)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("role changed", slog.String("user_id", userID), slog.String("role", role))
	return nil
}

// GetProfile returns the non-secret view of a user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

func (s *AuthService) getUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) issuePair(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	access, err := s.Tokens.IssueAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.RefreshTokens.IssueAndStore(ctx, user.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// setPassword hashes next and stores it, revoking the refresh token.
// password_changed_at never moves backwards.
func (s *AuthService) setPassword(ctx context.Context, user domain.User, next string) error {
	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return err
	}

	changedAt := s.now()
	if changedAt.Before(user.PasswordChangedAt) {
		changedAt = user.PasswordChangedAt
	}

	err = s.Store.Users().UpdatePassword(ctx, user.ID, hash, changedAt)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// upgradeHash rewrites a hash made with outdated parameters. Failures are
// logged and otherwise ignored.
func (s *AuthService) upgradeHash(ctx context.Context, userID, password string) {
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Warn("failed to rehash password", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		l.Warn("failed to store rehashed password", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("user_id", userID))
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyHash
}
