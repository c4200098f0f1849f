// Package memory is an in-process store driver. It backs unit tests and
// single-instance deployments that do not need durability.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
)

type Store struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string

	// now stamps updated_at; tests may override it.
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
		now:        time.Now,
	}
}

func (s *Store) Users() store.Users         { return users{s} }
func (s *Store) ApplyMigrations() error     { return nil }
func (s *Store) Close() error               { return nil }
func (s *Store) Ping(context.Context) error { return nil }

type users struct{ s *Store }

// clone copies the pointer fields so callers never share state with the map.
func clone(u *domain.User) domain.User {
	out := *u
	if u.RefreshTokenExpiresAt != nil {
		exp := *u.RefreshTokenExpiresAt
		out.RefreshTokenExpiresAt = &exp
	}
	return out
}

func (r users) GetUserByID(_ context.Context, id string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.byID[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return clone(u), nil
}

func (r users) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byUsername[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return clone(r.s.byID[id]), nil
}

func (r users) UsernameExists(_ context.Context, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.byUsername[username]
	return ok, nil
}

func (r users) CreateUser(_ context.Context, u domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byUsername[u.Username]; ok {
		return store.ErrAlreadyExists
	}
	if _, ok := r.s.byID[u.ID]; ok {
		return store.ErrAlreadyExists
	}

	stored := clone(&u)
	r.s.byID[u.ID] = &stored
	r.s.byUsername[u.Username] = u.ID
	return nil
}

// update runs fn against the stored record under the write lock.
func (r users) update(id string, fn func(u *domain.User) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.byID[id]
	if !ok {
		return store.ErrNotFound
	}

	next := clone(u)
	if err := fn(&next); err != nil {
		return err
	}
	next.UpdatedAt = r.s.now().UTC()
	r.s.byID[id] = &next
	return nil
}

func (r users) UpdatePassword(_ context.Context, userID, newHash string, changedAt time.Time) error {
	return r.update(userID, func(u *domain.User) error {
		u.PasswordHash = newHash
		u.PasswordChangedAt = changedAt
		u.RefreshTokenHash = ""
		u.RefreshTokenExpiresAt = nil
		return nil
	})
}

func (r users) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	return r.update(userID, func(u *domain.User) error {
		u.PasswordHash = newHash
		return nil
	})
}

func (r users) UpdateRole(_ context.Context, userID, role string) error {
	return r.update(userID, func(u *domain.User) error {
		u.Role = role
		return nil
	})
}

func (r users) SetRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return r.update(userID, func(u *domain.User) error {
		u.RefreshTokenHash = tokenHash
		u.RefreshTokenExpiresAt = &expiresAt
		return nil
	})
}

func (r users) SwapRefreshToken(_ context.Context, userID, currentHash, nextHash string, expiresAt, now time.Time) error {
	return r.update(userID, func(u *domain.User) error {
		if currentHash == "" || u.RefreshTokenHash != currentHash || !u.HasRefreshToken(now) {
			return store.ErrConflict
		}
		u.RefreshTokenHash = nextHash
		u.RefreshTokenExpiresAt = &expiresAt
		return nil
	})
}

func (r users) ClearRefreshToken(_ context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) error {
		u.RefreshTokenHash = ""
		u.RefreshTokenExpiresAt = nil
		return nil
	})
}

func (r users) ClearExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, u := range r.s.byID {
		if u.RefreshTokenExpiresAt == nil || now.Before(*u.RefreshTokenExpiresAt) {
			continue
		}
		u.RefreshTokenHash = ""
		u.RefreshTokenExpiresAt = nil
		u.UpdatedAt = r.s.now().UTC()
		n++
	}
	return n, nil
}

func (r users) IsEmpty(context.Context) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.byID) == 0, nil
}
