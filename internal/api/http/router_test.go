package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staff-portal/internal/api/http/handlers"
	"github.com/spec-kit/staff-portal/internal/auth"
	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/domain"
	"github.com/spec-kit/staff-portal/internal/events"
	"github.com/spec-kit/staff-portal/internal/observability"
	"github.com/spec-kit/staff-portal/internal/repository/memory"
	"github.com/spec-kit/staff-portal/internal/service"
)

func newTestApp(t *testing.T, rateBurst int) *fiber.App {
	t.Helper()
	return newTestAppWithConfig(t, rateBurst, fiber.Config{})
}

func newTestAppWithConfig(t *testing.T, rateBurst int, fiberCfg fiber.Config) *fiber.App {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewSet(memory.DefaultLoginLogLimit)

	hash := func(pw string) string {
		h, err := auth.HashPassword(pw, bcrypt.MinCost)
		require.NoError(t, err)
		return h
	}
	for _, m := range []domain.StaffMember{
		{Username: "admin", AlternateHandle: "AdminUser#0001", Email: "admin@example.com", Name: "Admin User", Role: domain.StaffRoleAdmin, Department: "Management", PasswordHash: hash("admin0786")},
		{Username: "staff", AlternateHandle: "StaffCrew#0003", Email: "staff@example.com", Name: "Staff User", Role: domain.StaffRoleStaff, Department: "Crew", PasswordHash: hash("staff1921")},
	} {
		member := m
		require.NoError(t, repos.Staff.Create(ctx, &member))
	}

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	authSvc := service.NewAuthService(config.AuthConfig{
		JWTSecret:         "router-test-secret",
		TokenTTL:          time.Hour,
		BcryptCost:        bcrypt.MinCost,
		MinPasswordLength: 6,
	}, service.AuthDependencies{
		StaffRepo:      repos.Staff,
		CredentialRepo: repos.Credentials,
		LoginLogRepo:   repos.LoginLogs,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Metrics:        metrics,
	})
	logSvc := service.NewLoginLogService(repos.LoginLogs, dispatcher, logger)

	app := fiber.New(fiberCfg)
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("staff-portal", "test", nil),
		Auth:           handlers.NewAuthHandler(authSvc),
		LoginLogs:      handlers.NewLoginLogsHandler(logSvc),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.TokenManager()),
		Metrics:        metrics,
		RatePerSecond:  1,
		RateBurst:      rateBurst,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func loginToken(t *testing.T, app *fiber.App, username, password, category string) string {
	t.Helper()
	status, body := call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"username": username, "alternateHandle": "x", "password": password, "category": category,
	})
	require.Equal(t, nethttp.StatusOK, status, body)
	return body["token"].(string)
}

func TestLoginEndpoint(t *testing.T) {
	app := newTestApp(t, 100)

	status, body := call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"username": "staff", "alternateHandle": "anything", "password": "staff1921", "category": "staff",
	})
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "staff", user["role"])
	assert.Equal(t, "Crew", user["department"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "PasswordHash")

	t.Run("discordUsername alias", func(t *testing.T) {
		status, _ := call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
			"username": "nobody", "discordUsername": "staffcrew#0003", "password": "staff1921", "category": "staff",
		})
		assert.Equal(t, nethttp.StatusOK, status)
	})

	t.Run("wrong category", func(t *testing.T) {
		status, body := call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
			"username": "staff", "alternateHandle": "x", "password": "staff1921", "category": "admin",
		})
		assert.Equal(t, nethttp.StatusUnauthorized, status)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "CATEGORY_MISMATCH", body["code"])
		assert.Contains(t, body["message"], "ADMIN")
	})

	t.Run("unknown user looks like a bad password", func(t *testing.T) {
		_, ghost := call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
			"username": "ghost", "alternateHandle": "ghost", "password": "pw", "category": "staff",
		})
		status, bad := call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
			"username": "staff", "alternateHandle": "x", "password": "pw", "category": "staff",
		})
		assert.Equal(t, nethttp.StatusUnauthorized, status)
		assert.Equal(t, bad["message"], ghost["message"])
		assert.Equal(t, "INVALID_CREDENTIALS", ghost["code"])
	})

	t.Run("missing fields", func(t *testing.T) {
		status, body := call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{"username": "staff"})
		assert.Equal(t, nethttp.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_FAILED", body["code"])
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodPost, "/auth/login", strings.NewReader("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	app := newTestApp(t, 100)

	status, body := call(t, app, nethttp.MethodPost, "/auth/change-password", "", map[string]string{
		"username": "staff", "oldPassword": "staff1921", "newPassword": "newpass1",
	})
	require.Equal(t, nethttp.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "staff", body["user"].(map[string]any)["username"])

	status, _ = call(t, app, nethttp.MethodPost, "/auth/login", "", map[string]string{
		"username": "staff", "alternateHandle": "x", "password": "staff1921", "category": "staff",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	loginToken(t, app, "staff", "newpass1", "staff")

	status, body = call(t, app, nethttp.MethodPost, "/auth/change-password", "", map[string]string{
		"username": "ghost", "oldPassword": "x", "newPassword": "newpass1",
	})
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body = call(t, app, nethttp.MethodPost, "/auth/change-password", "", map[string]string{
		"username": "staff", "oldPassword": "newpass1", "newPassword": "short",
	})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, "POLICY_VIOLATION", body["code"])

	status, _ = call(t, app, nethttp.MethodPost, "/auth/change-password", "", map[string]string{
		"username": "staff", "oldPassword": "wrong", "newPassword": "newpass2",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestLoginLogsEndpoints(t *testing.T) {
	app := newTestApp(t, 100)
	adminToken := loginToken(t, app, "admin", "admin0786", "admin")
	staffToken := loginToken(t, app, "staff", "staff1921", "staff")

	status, _ := call(t, app, nethttp.MethodGet, "/auth/login-logs", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, _ = call(t, app, nethttp.MethodGet, "/auth/login-logs", "not-a-jwt", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)

	status, body := call(t, app, nethttp.MethodGet, "/auth/login-logs", staffToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])

	status, body = call(t, app, nethttp.MethodGet, "/auth/login-logs", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	logs := body["logs"].([]any)
	require.Len(t, logs, 2)
	assert.Equal(t, "staff", logs[0].(map[string]any)["username"])
	assert.Equal(t, "username", logs[0].(map[string]any)["loginMethod"])

	status, body = call(t, app, nethttp.MethodGet, "/auth/login-logs?scope=today&limit=1", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Len(t, body["logs"].([]any), 1)

	status, body = call(t, app, nethttp.MethodGet, "/auth/login-logs/count?scope=today", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "today", body["scope"])

	status, _ = call(t, app, nethttp.MethodDelete, "/auth/login-logs", staffToken, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = call(t, app, nethttp.MethodDelete, "/auth/login-logs", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)

	_, body = call(t, app, nethttp.MethodGet, "/auth/login-logs/count", adminToken, nil)
	assert.Equal(t, float64(0), body["count"])
}

func TestSessionEndpoint(t *testing.T) {
	app := newTestApp(t, 100)
	token := loginToken(t, app, "staff", "staff1921", "staff")

	status, body := call(t, app, nethttp.MethodGet, "/auth/session", token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	session := body["session"].(map[string]any)
	assert.Equal(t, "staff", session["username"])
	perms := body["permissions"].(map[string]any)
	assert.Equal(t, true, perms["isReadOnly"])
	assert.Equal(t, false, perms["canDelete"])

	status, _ = call(t, app, nethttp.MethodGet, "/auth/session", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestUnknownRouteRendersErrorEnvelope(t *testing.T) {
	app := newTestApp(t, 100)
	status, body := call(t, app, nethttp.MethodGet, "/nope", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, 100)

	status, body := call(t, app, nethttp.MethodGet, "/health/live", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = call(t, app, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	loginToken(t, app, "staff", "staff1921", "staff")

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `auth_login_attempts_total{outcome="success"} 1`)
}

func TestMetricsScrapeAfterErrorRequests(t *testing.T) {
	app := newTestApp(t, 100)

	call(t, app, nethttp.MethodGet, "/auth/login-logs", "", nil)
	call(t, app, nethttp.MethodGet, "/auth/session", "", nil)
	call(t, app, nethttp.MethodPost, "/auth/change-password", "", map[string]string{"username": "staff"})
	for i := 0; i < 50; i++ {
		status, _ := call(t, app, nethttp.MethodGet, fmt.Sprintf("/missing/%d", i), "", nil)
		require.Equal(t, nethttp.StatusNotFound, status)
	}

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(raw))

		out := string(raw)
		assert.Contains(t, out, `http_errors_total{code="UNAUTHORIZED",method="GET",path="/auth/session"} 1`)
		assert.NotContains(t, out, "/missing/")
		assert.NotContains(t, out, `method="GETT"`)
	}
}

func loginFrom(t *testing.T, app *fiber.App, forwardedFor string) int {
	t.Helper()
	raw, err := json.Marshal(map[string]string{
		"username": "staff", "alternateHandle": "x", "password": "staff1921", "category": "staff",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodPost, "/auth/login", bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderXForwardedFor, forwardedFor)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestForwardedAddressFromTrustedProxy(t *testing.T) {
	app := newTestAppWithConfig(t, 100, FiberConfig(config.AppConfig{
		Name:           "staff-portal",
		ProxyHeader:    fiber.HeaderXForwardedFor,
		TrustedProxies: []string{"0.0.0.0/0"},
	}))
	require.Equal(t, nethttp.StatusOK, loginFrom(t, app, "203.0.113.7"))

	adminToken := loginToken(t, app, "admin", "admin0786", "admin")
	status, body := call(t, app, nethttp.MethodGet, "/auth/login-logs", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	logs := body["logs"].([]any)
	require.Len(t, logs, 2)
	assert.Equal(t, "203.0.113.7", logs[1].(map[string]any)["sourceAddress"])
}

func TestForwardedAddressFromUntrustedProxyIgnored(t *testing.T) {
	app := newTestAppWithConfig(t, 100, FiberConfig(config.AppConfig{
		Name:           "staff-portal",
		ProxyHeader:    fiber.HeaderXForwardedFor,
		TrustedProxies: []string{"198.51.100.0/24"},
	}))
	require.Equal(t, nethttp.StatusOK, loginFrom(t, app, "203.0.113.7"))

	adminToken := loginToken(t, app, "admin", "admin0786", "admin")
	status, body := call(t, app, nethttp.MethodGet, "/auth/login-logs", adminToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	logs := body["logs"].([]any)
	require.Len(t, logs, 2)
	assert.NotEqual(t, "203.0.113.7", logs[1].(map[string]any)["sourceAddress"])
}

func TestRateLimitBucketsPerForwardedClient(t *testing.T) {
	app := newTestAppWithConfig(t, 1, FiberConfig(config.AppConfig{
		ProxyHeader:    fiber.HeaderXForwardedFor,
		TrustedProxies: []string{"0.0.0.0/0"},
	}))

	assert.Equal(t, nethttp.StatusOK, loginFrom(t, app, "203.0.113.7"))
	assert.Equal(t, nethttp.StatusTooManyRequests, loginFrom(t, app, "203.0.113.7"))
	assert.Equal(t, nethttp.StatusOK, loginFrom(t, app, "203.0.113.8"))
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	app := newTestApp(t, 2)
	body := map[string]string{"username": "staff", "alternateHandle": "x", "password": "bad", "category": "staff"}

	call(t, app, nethttp.MethodPost, "/auth/login", "", body)
	call(t, app, nethttp.MethodPost, "/auth/login", "", body)
	status, resp := call(t, app, nethttp.MethodPost, "/auth/login", "", body)
	assert.Equal(t, nethttp.StatusTooManyRequests, status)
	assert.Equal(t, "TOO_MANY_ATTEMPTS", resp["code"])
}
