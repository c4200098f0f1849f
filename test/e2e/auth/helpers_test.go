//go:build e2e

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "sessionauth-test:latest"

	signingSecret = "e2e-signing-secret-that-is-long-enough"
	adminUsername = "admin"
	adminPassword = "Admin123!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")

	// Build the Docker image once before all tests
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	// Run all tests
	exitCode := m.Run()

	// Clean up the Docker image after all tests complete
	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "." // Ensure we're in the test directory
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupAuthContainer starts the auth service with a bootstrapped admin and
// returns a client for it. The container is terminated when the test ends.
func setupAuthContainer(t *testing.T) *authsdk.Client {
	t.Helper()
	return setupAuthContainerWithEnv(t, nil)
}

// setupAuthContainerWithEnv is setupAuthContainer with extra environment.
func setupAuthContainerWithEnv(t *testing.T, extra map[string]string) *authsdk.Client {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"AUTH_SIGNING_SECRET": signingSecret,
		"AUTH_ADMIN_USERNAME": adminUsername,
		"AUTH_ADMIN_PASSWORD": adminPassword,
		"AUTH_STORE_DRIVER":   "sqlite",
		"AUTH_DATABASE_FILE":  "/data/auth.db",
		"AUTH_PEPPER_FILE":    "/data/pepper",
		"AUTH_ISSUER":         "sessionauth-e2e",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
	}
	for k, v := range extra {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	// Get the mapped port
	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return authsdk.NewClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))
}

// loginAdmin signs in as the bootstrapped administrator.
func loginAdmin(t *testing.T, client *authsdk.Client) *authsdk.Session {
	t.Helper()
	session, err := client.Login(t.Context(), adminUsername, adminPassword)
	require.NoError(t, err, "admin login should succeed")
	return session
}

// registerAndLogin creates a regular user and signs in.
func registerAndLogin(t *testing.T, client *authsdk.Client, username, password string) (*authsdk.UserResponse, *authsdk.Session) {
	t.Helper()
	ctx := t.Context()

	user, err := client.Register(ctx, authsdk.RegisterRequest{Username: username, Password: password})
	require.NoError(t, err, "register should succeed")

	session, err := client.Login(ctx, username, password)
	require.NoError(t, err, "login should succeed")
	return user, session
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertAPIError checks err is an *authsdk.APIError with status and code.
func assertAPIError(t *testing.T, err error, status int, code, context string) {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "%s - expected APIError, got: %v", context, err)
	require.Equal(t, status, apiErr.StatusCode, context)
	require.Equal(t, code, apiErr.Code, context)
}
