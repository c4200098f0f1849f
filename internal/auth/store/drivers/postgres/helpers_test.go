package postgres

import "github.com/aussiebroadwan/sessionauth/internal/auth/domain"

func newTestUser() domain.User {
	return domain.User{
		ID:                 "u1",
		Username:           "alice",
		PasswordHash:       "hash",
		Role:               domain.RoleUser,
		PasswordChangedAt:  fixedNow,
		PasswordMaxAgeDays: 90,
		CreatedAt:          fixedNow,
		UpdatedAt:          fixedNow,
	}
}
