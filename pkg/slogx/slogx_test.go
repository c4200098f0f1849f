package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestNew_BaseAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{
		Service: "auth",
		Version: "1.2.3",
		Env:     "prod",
		Level:   "warn",
		Format:  "json",
		Output:  &buf,
	})

	logger.Info("dropped")
	require.Zero(t, buf.Len(), "info is below the configured level")

	logger.Warn("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "auth", entry["service"])
	require.Equal(t, "1.2.3", entry["version"])
	require.Equal(t, "prod", entry["env"])
}

func TestFromContext_DefaultsWhenMissing(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := slogx.WithContext(context.Background(), custom)
	require.Equal(t, custom, slogx.FromContext(ctx))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)

	dec := json.NewDecoder(&buf)
	var inner, access map[string]any
	require.NoError(t, dec.Decode(&inner))
	require.NoError(t, dec.Decode(&access))

	require.Equal(t, "req-42", inner["req_id"])
	require.Equal(t, "/api/auth/me", inner["path"])
	require.Equal(t, "http_request", access["msg"])
	require.EqualValues(t, http.StatusTeapot, access["status"])
}
