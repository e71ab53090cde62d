package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/WilliamRochafnpe/FNPE/internal/assist"
	"github.com/WilliamRochafnpe/FNPE/internal/auth"
	"github.com/WilliamRochafnpe/FNPE/internal/config"
	"github.com/WilliamRochafnpe/FNPE/internal/logging"
	"github.com/WilliamRochafnpe/FNPE/internal/service"
	"github.com/WilliamRochafnpe/FNPE/internal/session"
	"github.com/WilliamRochafnpe/FNPE/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server over a fresh miniredis-backed store seeded
// with the demo document.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := store.NewRedisBackendFromClient(client)
	logger := logging.NewLogger(logging.LevelError, logging.FormatText)
	st := store.New(backend, logger)

	sessions := session.NewManager(st, nil, logger)
	_, err = sessions.Start(context.Background())
	require.NoError(t, err)

	cfg := &config.Config{
		Server:    config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}

	return NewServer(
		cfg,
		logger,
		sessions,
		st,
		auth.NewLocalStrategy(logger),
		auth.NewRecovery(logger),
		service.NewMembershipService(sessions, logger),
		service.NewCertificationService(sessions, logger),
		service.NewEventService(sessions, logger),
		service.NewUserService(sessions, logger),
		service.NewSettingsService(sessions, logger),
		assist.NewClient(config.AssistantConfig{}, logger),
	)
}

// doJSON performs a request against the router with an optional JSON body
// and session token.
func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// login runs the one-time-code flow for an existing user and returns the
// session token. The local strategy surfaces the code as devCode.
func login(t *testing.T, s *Server, email string) string {
	t.Helper()

	w := doJSON(t, s, "POST", "/api/auth/otp/request", "", map[string]string{"email": email})
	require.Equal(t, http.StatusOK, w.Code)

	var otp struct {
		DevCode string `json:"devCode"`
	}
	decodeBody(t, w, &otp)
	require.NotEmpty(t, otp.DevCode)

	w = doJSON(t, s, "POST", "/api/auth/otp/verify", "", map[string]string{"email": email, "code": otp.DevCode})
	require.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, "GET", "/api/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	decodeBody(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/api/events", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/events", "/api/dashboard", "/api/auth/session"} {
		w := doJSON(t, s, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doJSON(t, s, "GET", "/api/events", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAdminLevel(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "pescador@demo.com")

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/users"},
		{"GET", "/api/admin/dashboard"},
		{"GET", "/api/admin/snapshots"},
		{"POST", "/api/admin/reset"},
		{"PUT", "/api/admin/settings"},
	} {
		w := doJSON(t, s, route.method, route.path, token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, route.path)
	}
}

func TestRateLimitExceeded(t *testing.T) {
	s := newTestServer(t)

	// Rebuild the router with a tight budget.
	s.config.RateLimit = config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2}
	s.router = mux.NewRouter()
	s.setupRouter()

	for i := 0; i < 2; i++ {
		w := doJSON(t, s, "GET", "/api/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, s, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestInvalidJSONBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/auth/otp/request", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
