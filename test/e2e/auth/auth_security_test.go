//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
)

// TestInvalidCredentials verifies unknown users and wrong passwords are
// indistinguishable.
func TestInvalidCredentials(t *testing.T) {
	client := setupAuthContainer(t)

	_, err := client.Login(t.Context(), adminUsername, "wrong-password")
	assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidCredentials, "wrong password")

	_, err = client.Login(t.Context(), "nobody", "wrong-password")
	assertAPIError(t, err, http.StatusBadRequest, authsdk.ErrorCodeInvalidCredentials, "unknown user")
}

// TestInvalidAccessToken verifies authenticated routes reject bad tokens.
func TestInvalidAccessToken(t *testing.T) {
	client := setupAuthContainer(t)
	admin := loginAdmin(t, client)

	for name, token := range map[string]string{
		"garbage":  "invalid-token-12345",
		"tampered": admin.AccessToken() + "x",
	} {
		invalid := client.NewSession(authsdk.TokenResponse{AccessToken: token})

		_, err := invalid.Me(t.Context())
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, name)
	}
}

// TestTokenFromOtherInstance verifies a token signed with another secret is
// rejected.
func TestTokenFromOtherInstance(t *testing.T) {
	first := setupAuthContainer(t)
	second := setupAuthContainerWithEnv(t, map[string]string{
		"AUTH_SIGNING_SECRET": "a-completely-different-secret-of-length",
	})

	admin := loginAdmin(t, first)
	foreign := second.NewSession(authsdk.TokenResponse{AccessToken: admin.AccessToken()})

	_, err := foreign.Me(t.Context())
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, "foreign signature")
}
