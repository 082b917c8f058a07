package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/config"
	"marketplace/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-test-secret-at-least-32-chars"

func testConfig() *config.Config {
	return &config.Config{
		Env:               "test",
		Port:              "0",
		JWTSecret:         testJWTSecret,
		AllowedOrigins:    "http://localhost:3000",
		AllowUserIDHeader: true,
	}
}

// newTestApp wires a full server on an in-memory database.
func newTestApp(t *testing.T, rdb *redis.Client) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	db := testutil.NewTestDB(t)
	s, err := NewServerWithDeps(testConfig(), db, rdb)
	require.NoError(t, err)
	return s, s.NewApp(), db
}

// doJSON sends a request as userID (0 means anonymous) and decodes the JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, userID uint) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(UserIDHeader, fmt.Sprint(userID))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func TestHealthEndpoints(t *testing.T) {
	_, app, _ := newTestApp(t, nil)

	status, body := doJSON(t, app, http.MethodGet, "/health/live", nil, 0)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "up", body["status"])

	status, body = doJSON(t, app, http.MethodGet, "/health/ready", nil, 0)
	require.Equal(t, http.StatusServiceUnavailable, status)
	checks := body["checks"].(map[string]any)
	require.Equal(t, "healthy", checks["database"])
	require.Equal(t, "unavailable", checks["redis"])
}

func TestHealthReady_WithRedis(t *testing.T) {
	_, rdb := testutil.NewTestRedis(t)
	_, app, _ := newTestApp(t, rdb)

	status, body := doJSON(t, app, http.MethodGet, "/health", nil, 0)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "healthy", body["status"])
}

func decodeBody(resp *http.Response, dest any) error {
	return json.NewDecoder(resp.Body).Decode(dest)
}

func newBearerRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
