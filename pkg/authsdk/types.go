package authsdk

import "time"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	// Error is a machine-readable code such as "invalid_credentials"
	Error string `json:"error"`

	// ErrorDescription is a human-readable explanation
	ErrorDescription string `json:"error_description,omitempty"`
}

// ============================================================================
// Session Types
// ============================================================================

// RegisterRequest creates a user. Role is only honoured when the caller is
// an administrator; anyone else gets "User".
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair. The token
// is consumed whether or not the caller keeps the result.
type RefreshTokenRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is returned from login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ============================================================================
// User Types
// ============================================================================

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Role               string    `json:"role"`
	PasswordChangedAt  time.Time `json:"passwordChangedAt"`
	PasswordMaxAgeDays int       `json:"passwordMaxAgeDays"`
}

// CheckPasswordRequest re-verifies the caller's password.
type CheckPasswordRequest struct {
	Password string `json:"password"`
}

// CheckPasswordResponse reports whether the password matched and how old it
// is. ExpiresAt and DaysRemaining are nil when the user has no age policy.
type CheckPasswordResponse struct {
	// Valid is true only when the password matches and has not expired
	Valid              bool       `json:"valid"`
	PasswordChangedAt  time.Time  `json:"passwordChangedAt"`
	PasswordMaxAgeDays int        `json:"passwordMaxAgeDays"`
	ExpiresAt          *time.Time `json:"expiresAt"`
	IsExpired          bool       `json:"isExpired"`
	DaysRemaining      *int       `json:"daysRemaining"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ============================================================================
// Admin Types
// ============================================================================

// SetPasswordRequest forces a new password on another user.
type SetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// SetRoleRequest overwrites another user's role.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned from /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists the dependencies probed by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}
