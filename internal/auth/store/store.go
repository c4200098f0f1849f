package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict reports that a conditional write lost against a concurrent
	// writer, e.g. a refresh token that was rotated in the meantime.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Concrete drivers (memory, sqlite,
// postgres, redis) implement this.
//
// There is no transaction API. Every write the service needs touches a
// single user record and each driver executes it as one atomic statement
// (or script), so rotation and revocation never observe a half-written
// record.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is still reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login. Usernames are case-sensitive.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameExists reports whether the username is taken.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePassword sets a new hash and password_changed_at and revokes the
	// refresh token in the same write.
	UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error

	// UpdatePasswordHash replaces the stored hash only (parameter upgrade).
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// UpdateRole overwrites the role tag.
	UpdateRole(ctx context.Context, userID, role string) error

	// SetRefreshToken stores a fresh refresh token fingerprint and expiry,
	// replacing whatever was there.
	SetRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// SwapRefreshToken replaces the refresh token only while the stored
	// fingerprint equals currentHash and its expiry is after now. Returns
	// ErrConflict otherwise and ErrNotFound for an unknown user.
	SwapRefreshToken(ctx context.Context, userID, currentHash, nextHash string, expiresAt, now time.Time) error

	// ClearRefreshToken removes the refresh token and its expiry.
	ClearRefreshToken(ctx context.Context, userID string) error

	// ClearExpiredRefreshTokens revokes every refresh token whose expiry is at
	// or before now and returns how many were cleared.
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}
