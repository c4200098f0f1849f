//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestCheckPassword verifies the password status report.
func TestCheckPassword(t *testing.T) {
	client := setupAuthContainer(t)
	_, session := registerAndLogin(t, client, "alice", "Secret1!")

	status, err := session.CheckPassword(t.Context(), "Secret1!")
	require.NoError(t, err)
	require.True(t, status.Valid)
	require.False(t, status.IsExpired)
	require.Equal(t, 90, status.PasswordMaxAgeDays)
	require.NotNil(t, status.DaysRemaining)
	require.Equal(t, 90, *status.DaysRemaining)

	status, err = session.CheckPassword(t.Context(), "wrong")
	require.NoError(t, err)
	require.False(t, status.Valid)
}

// TestPasswordPolicyDisabled verifies AUTH_PASSWORD_MAX_AGE_DAYS=0 turns
// the age policy off.
func TestPasswordPolicyDisabled(t *testing.T) {
	client := setupAuthContainerWithEnv(t, map[string]string{"AUTH_PASSWORD_MAX_AGE_DAYS": "0"})
	_, session := registerAndLogin(t, client, "alice", "Secret1!")

	status, err := session.CheckPassword(t.Context(), "Secret1!")
	require.NoError(t, err)
	require.True(t, status.Valid)
	require.Nil(t, status.ExpiresAt)
	require.Nil(t, status.DaysRemaining)
}

// TestChangePassword verifies the old password and refresh token stop working.
func TestChangePassword(t *testing.T) {
	client := setupAuthContainer(t)
	ctx := t.Context()
	_, session := registerAndLogin(t, client, "alice", "Secret1!")

	err := session.ChangePassword(ctx, "wrong", "Secret2!")
	assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodePasswordIncorrect, "wrong current password")

	require.NoError(t, session.ChangePassword(ctx, "Secret1!", "Secret2!"))

	err = session.Refresh(ctx)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidRefreshToken, "refresh after password change")

	_, err = client.Login(ctx, "alice", "Secret1!")
	assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidCredentials, "old password")

	_, err = client.Login(ctx, "alice", "Secret2!")
	require.NoError(t, err)
}
