package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
)

type usersRepo struct {
	db  *sql.DB
	now func() time.Time
}

const userColumns = `id, username, password_hash, role, refresh_token_hash,
	refresh_token_expires_at, password_changed_at, password_max_age_days,
	created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u              domain.User
		refreshHash    sql.NullString
		refreshExpires sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &refreshHash,
		&refreshExpires, &u.PasswordChangedAt, &u.PasswordMaxAgeDays,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.RefreshTokenHash = refreshHash.String
	u.RefreshTokenExpiresAt = mapNullTime(refreshExpires)
	u.PasswordChangedAt = u.PasswordChangedAt.UTC()
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: username exists: %w", err)
	}
	return exists, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, password_hash, role, password_changed_at,
			password_max_age_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.PasswordChangedAt,
		u.PasswordMaxAgeDays, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("postgres: create user: %w", err)
	}
	return nil
}

// execOne runs a single-row update and maps zero affected rows to ErrNotFound.
func (r *usersRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error {
	return r.execOne(ctx, `
		UPDATE users
		SET password_hash = $1, password_changed_at = $2,
			refresh_token_hash = NULL, refresh_token_expires_at = NULL,
			updated_at = $3
		WHERE id = $4`,
		newHash, changedAt, r.now().UTC(), userID,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.execOne(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		newHash, r.now().UTC(), userID,
	)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID, role string) error {
	return r.execOne(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		role, r.now().UTC(), userID,
	)
}

func (r *usersRepo) SetRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return r.execOne(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3
		WHERE id = $4`,
		tokenHash, expiresAt, r.now().UTC(), userID,
	)
}

func (r *usersRepo) SwapRefreshToken(
	ctx context.Context,
	userID, currentHash, nextHash string,
	expiresAt, now time.Time,
) error {
	// Postgres re-evaluates the WHERE clause after waiting on a row lock, so
	// only one of several concurrent swaps can match.
	err := r.execOne(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3
		WHERE id = $4 AND refresh_token_hash = $5 AND refresh_token_expires_at > $6`,
		nextHash, expiresAt, r.now().UTC(), userID, currentHash, now,
	)
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("postgres: user exists: %w", err)
	}
	if !exists {
		return store.ErrNotFound
	}
	return store.ErrConflict
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $1
		WHERE id = $2`,
		r.now().UTC(), userID,
	)
}

func (r *usersRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $1
		WHERE refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at <= $2`,
		r.now().UTC(), now,
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: clear expired refresh tokens: %w", err)
	}
	return res.RowsAffected()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var empty bool
	err := r.db.QueryRowContext(ctx, `SELECT NOT EXISTS (SELECT 1 FROM users)`).Scan(&empty)
	if err != nil {
		return false, fmt.Errorf("postgres: is empty: %w", err)
	}
	return empty, nil
}
