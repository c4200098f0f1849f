//go:build e2e

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness check endpoint.
func TestLivezEndpoint(t *testing.T) {
	client := setupAuthContainer(t)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
	require.NotEmpty(t, health.Version)
}

// TestReadyzEndpoint verifies the readiness check reports the store.
func TestReadyzEndpoint(t *testing.T) {
	client := setupAuthContainer(t)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}
