package domain

import "time"

// PasswordStatus is the evaluated password age policy for a user. All
// optional fields are nil when the policy is disabled.
type PasswordStatus struct {
	ExpiresAt     *time.Time `json:"expiresAt"`
	IsExpired     bool       `json:"isExpired"`
	DaysRemaining *int       `json:"daysRemaining"`
}

// PasswordCheck is the result of re-checking a password for a signed-in
// user together with its age policy.
type PasswordCheck struct {
	Valid              bool      `json:"valid"`
	PasswordChangedAt  time.Time `json:"passwordChangedAt"`
	PasswordMaxAgeDays int       `json:"passwordMaxAgeDays"`
	PasswordStatus
}
