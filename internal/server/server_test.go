package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aristath/tradejournal/internal/config"
	"github.com/aristath/tradejournal/internal/di"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		DataDir:            t.TempDir(),
		Port:               8000,
		JWTSecret:          "test-secret",
		AccessTokenTTL:     30 * time.Minute,
		LoginRatePerMinute: 10,
		Backup:             config.BackupConfig{Keep: 2},
	}
	container, err := di.Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })
	container.UserService.SetHashCost(bcrypt.MinCost)

	s := New(Config{
		Log:         zerolog.Nop(),
		Port:        cfg.Port,
		CORSOrigins: []string{"http://localhost:5173"},
		Version:     "test",
		Container:   container,
	})
	s.systemHandlers.systemStats = func() (float64, float64) { return 12.5, 40 }
	return s
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestServer_HealthReportsDatabaseFailure(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.container.JournalDB.Close())

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "database unavailable", body["detail"])
}

func TestServer_SystemStatus(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/system/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body SystemStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 12.5, body.CPUPercent)
	assert.Equal(t, 40.0, body.MemoryPercent)
	require.NotNil(t, body.Database)
	assert.Positive(t, body.Database.PageCount)
	assert.Zero(t, body.Backups)
}

func TestServer_UnknownRouteUsesDetailShape(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/accounts/", "/trading-plans/", "/trading-daily-books/", "/dashboard", "/settings/", "/users/me"} {
		rec := do(t, s, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestServer_RegisterLoginAndDashboard(t *testing.T) {
	s := newTestServer(t)

	register := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"correct-horse"}`))
	register.Header.Set("Content-Type", "application/json")
	rec := do(t, s, register)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	form := url.Values{"username": {"alice@example.com"}, "password": {"correct-horse"}}
	login := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	login.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = do(t, s, login)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.Equal(t, "bearer", token.TokenType)

	authed := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		req.Header.Set("Content-Type", "application/json")
		return do(t, s, req)
	}

	rec = authed(http.MethodPost, "/accounts/", `{"account_name":"Main","account_balance":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = authed(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var overview struct {
		TotalBalance float64 `json:"total_balance"`
		AccountCount int     `json:"account_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, 1, overview.AccountCount)
	assert.InDelta(t, 1000.0, overview.TotalBalance, 1e-9)

	// Requests are counted by route pattern
	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/dashboard"`)
	assert.Contains(t, rec.Body.String(), `tradejournal_login_attempts_total{outcome="success"}`)
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/accounts/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := do(t, s, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
