// Package redis keeps the user directory in Redis. Each user is a hash,
// usernames are indexed by plain keys, and refresh-token expiries live in a
// sorted set for housekeeping. Every write is a Lua script so it applies
// atomically to the user record.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	goredis "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the driver writes.
const DefaultPrefix = "sessionauth"

type Store struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// NewStore wraps a connected client. An empty prefix uses DefaultPrefix.
func NewStore(client goredis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix, now: time.Now}
}

func (s *Store) Users() store.Users { return &usersRepo{s: s} }

// ApplyMigrations is a no-op; the key layout needs no schema.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return s.client.Close() }

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) userKey(id string) string           { return s.prefix + ":user:" + id }
func (s *Store) usernameKey(username string) string { return s.prefix + ":username:" + username }
func (s *Store) userSetKey() string                 { return s.prefix + ":users" }
func (s *Store) refreshIndexKey() string            { return s.prefix + ":refresh_expiry" }

type usersRepo struct{ s *Store }

func millis(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }

func parseMillis(v string) (time.Time, error) {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func decodeUser(fields map[string]string) (domain.User, error) {
	u := domain.User{
		ID:               fields["id"],
		Username:         fields["username"],
		PasswordHash:     fields["password_hash"],
		Role:             fields["role"],
		RefreshTokenHash: fields["refresh_token_hash"],
	}

	var err error
	if u.PasswordMaxAgeDays, err = strconv.Atoi(fields["password_max_age_days"]); err != nil {
		return domain.User{}, fmt.Errorf("redis: decode password_max_age_days: %w", err)
	}
	if u.PasswordChangedAt, err = parseMillis(fields["password_changed_at"]); err != nil {
		return domain.User{}, fmt.Errorf("redis: decode password_changed_at: %w", err)
	}
	if u.CreatedAt, err = parseMillis(fields["created_at"]); err != nil {
		return domain.User{}, fmt.Errorf("redis: decode created_at: %w", err)
	}
	if u.UpdatedAt, err = parseMillis(fields["updated_at"]); err != nil {
		return domain.User{}, fmt.Errorf("redis: decode updated_at: %w", err)
	}
	if v, ok := fields["refresh_token_expires_at"]; ok {
		exp, err := parseMillis(v)
		if err != nil {
			return domain.User{}, fmt.Errorf("redis: decode refresh_token_expires_at: %w", err)
		}
		u.RefreshTokenExpiresAt = &exp
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	fields, err := r.s.client.HGetAll(ctx, r.s.userKey(id)).Result()
	if err != nil {
		return domain.User{}, fmt.Errorf("redis: get user: %w", err)
	}
	if len(fields) == 0 {
		return domain.User{}, store.ErrNotFound
	}
	return decodeUser(fields)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	id, err := r.s.client.Get(ctx, r.s.usernameKey(username)).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.User{}, store.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("redis: get username: %w", err)
	}
	return r.GetUserByID(ctx, id)
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := r.s.client.Exists(ctx, r.s.usernameKey(username)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: username exists: %w", err)
	}
	return n > 0, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	res, err := createUserLua.Run(ctx, r.s.client,
		[]string{r.s.usernameKey(u.Username), r.s.userKey(u.ID), r.s.userSetKey()},
		u.ID,
		"id", u.ID,
		"username", u.Username,
		"password_hash", u.PasswordHash,
		"role", u.Role,
		"password_changed_at", millis(u.PasswordChangedAt),
		"password_max_age_days", strconv.Itoa(u.PasswordMaxAgeDays),
		"created_at", millis(u.CreatedAt),
		"updated_at", millis(u.UpdatedAt),
	).Int()
	if err != nil {
		return fmt.Errorf("redis: create user: %w", err)
	}
	if res != resultOK {
		return store.ErrAlreadyExists
	}
	return nil
}

// update runs updateUserLua with the given field/value pairs.
func (r *usersRepo) update(ctx context.Context, userID string, revokeRefresh bool, pairs ...any) error {
	revoke := "0"
	if revokeRefresh {
		revoke = "1"
	}
	args := append([]any{userID, revoke}, pairs...)
	args = append(args, "updated_at", millis(r.s.now()))

	res, err := updateUserLua.Run(ctx, r.s.client,
		[]string{r.s.userKey(userID), r.s.refreshIndexKey()},
		args...,
	).Int()
	if err != nil {
		return fmt.Errorf("redis: update user: %w", err)
	}
	if res == resultNotFound {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error {
	return r.update(ctx, userID, true,
		"password_hash", newHash,
		"password_changed_at", millis(changedAt),
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.update(ctx, userID, false, "password_hash", newHash)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID, role string) error {
	return r.update(ctx, userID, false, "role", role)
}

func (r *usersRepo) SetRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	res, err := setRefreshLua.Run(ctx, r.s.client,
		[]string{r.s.userKey(userID), r.s.refreshIndexKey()},
		userID, tokenHash, millis(expiresAt), millis(r.s.now()),
	).Int()
	if err != nil {
		return fmt.Errorf("redis: set refresh token: %w", err)
	}
	if res == resultNotFound {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) SwapRefreshToken(
	ctx context.Context,
	userID, currentHash, nextHash string,
	expiresAt, now time.Time,
) error {
	res, err := swapRefreshLua.Run(ctx, r.s.client,
		[]string{r.s.userKey(userID), r.s.refreshIndexKey()},
		userID, currentHash, nextHash, millis(expiresAt), millis(now), millis(r.s.now()),
	).Int()
	if err != nil {
		return fmt.Errorf("redis: swap refresh token: %w", err)
	}

	switch res {
	case resultOK:
		return nil
	case resultNotFound:
		return store.ErrNotFound
	default:
		return store.ErrConflict
	}
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	return r.update(ctx, userID, true)
}

func (r *usersRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	ids, err := r.s.client.ZRangeByScore(ctx, r.s.refreshIndexKey(), &goredis.ZRangeBy{
		Min: "-inf",
		Max: millis(now),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: list expired refresh tokens: %w", err)
	}

	var cleared int64
	for _, id := range ids {
		res, err := clearIfExpiredLua.Run(ctx, r.s.client,
			[]string{r.s.userKey(id), r.s.refreshIndexKey()},
			id, millis(now), millis(r.s.now()),
		).Int()
		if err != nil {
			return cleared, fmt.Errorf("redis: clear refresh token: %w", err)
		}
		cleared += int64(res)
	}
	return cleared, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.s.client.SCard(ctx, r.s.userSetKey()).Result()
	if err != nil {
		return false, fmt.Errorf("redis: count users: %w", err)
	}
	return n == 0, nil
}
