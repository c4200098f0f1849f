package sqlite

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
		u                  domain.User
		refreshHash        sql.NullString
		refreshExpires     sql.NullInt64
		changedAt          int64
		createdAt, updated int64
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &refreshHash,
		&refreshExpires, &changedAt, &u.PasswordMaxAgeDays,
		&createdAt, &updated,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.RefreshTokenHash = refreshHash.String
	u.RefreshTokenExpiresAt = mapNullMillis(refreshExpires)
	u.PasswordChangedAt = fromMillis(changedAt)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: username exists: %w", err)
	}
	return exists, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, username, password_hash, role, password_changed_at,
			password_max_age_days, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.Role, toMillis(u.PasswordChangedAt),
		u.PasswordMaxAgeDays, toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}
	return nil
}

// execOne runs a single-row update and maps zero affected rows to ErrNotFound.
func (r *usersRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) UpdatePassword(ctx context.Context, userID, newHash string, changedAt time.Time) error {
	return r.execOne(ctx, `
		UPDATE users
		SET password_hash = ?, password_changed_at = ?,
			refresh_token_hash = NULL, refresh_token_expires_at = NULL,
			updated_at = ?
		WHERE id = ?`,
		newHash, toMillis(changedAt), toMillis(r.now()), userID,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.execOne(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, toMillis(r.now()), userID,
	)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID, role string) error {
	return r.execOne(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role, toMillis(r.now()), userID,
	)
}

func (r *usersRepo) SetRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return r.execOne(ctx, `
		UPDATE users
		SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		tokenHash, toMillis(expiresAt), toMillis(r.now()), userID,
	)
}

func (r *usersRepo) SwapRefreshToken(
	ctx context.Context,
	userID, currentHash, nextHash string,
	expiresAt, now time.Time,
) error {
	err := r.execOne(ctx, `
		UPDATE users
		SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ?
		WHERE id = ? AND refresh_token_hash = ? AND refresh_token_expires_at > ?`,
		nextHash, toMillis(expiresAt), toMillis(r.now()), userID, currentHash, toMillis(now),
	)
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	// Nothing matched: either the user is gone or the token moved on.
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return store.ErrConflict
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		toMillis(r.now()), userID,
	)
}

func (r *usersRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = ?
		WHERE refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at <= ?`,
		toMillis(r.now()), toMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: clear expired refresh tokens: %w", err)
	}
	return res.RowsAffected()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
