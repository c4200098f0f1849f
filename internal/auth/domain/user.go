package domain

import "time"

// DefaultPasswordMaxAgeDays applies to users created without an explicit
// password age policy.
const DefaultPasswordMaxAgeDays = 90

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	Role         string

	// RefreshTokenHash is the fingerprint (base64url SHA-256) of the single
	// active refresh token. Empty means no token. RefreshTokenExpiresAt is
	// set if and only if RefreshTokenHash is.
	RefreshTokenHash      string
	RefreshTokenExpiresAt *time.Time

	PasswordChangedAt  time.Time
	PasswordMaxAgeDays int // <= 0 disables expiry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRefreshToken reports whether the user holds a refresh token that has
// not yet expired at now.
func (u User) HasRefreshToken(now time.Time) bool {
	return u.RefreshTokenHash != "" &&
		u.RefreshTokenExpiresAt != nil &&
		now.Before(*u.RefreshTokenExpiresAt)
}

// Profile is the outward view of a user. It never carries credentials.
type Profile struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Role               string    `json:"role"`
	PasswordChangedAt  time.Time `json:"passwordChangedAt"`
	PasswordMaxAgeDays int       `json:"passwordMaxAgeDays"`
}

// Profile strips the credential fields from u.
func (u User) Profile() Profile {
	return Profile{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               u.Role,
		PasswordChangedAt:  u.PasswordChangedAt,
		PasswordMaxAgeDays: u.PasswordMaxAgeDays,
	}
}
