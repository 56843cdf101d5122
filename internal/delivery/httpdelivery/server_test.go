package httpdelivery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/audit"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
)

func newTestServer(t *testing.T, limiter *RateLimiter, checks map[string]HealthCheck) http.Handler {
	t.Helper()
	svc := new(MockService)
	services := Services{Athletes: svc, Coaches: svc, Groups: svc, Enrollments: svc, Measurements: svc, PhysicalTests: svc}
	router := NewRouter(services, NewTokenVerifier(&config.AuthConfig{JWTSecret: testSecret}, nil))
	cfg := &config.ServerConfig{RequestTimeout: time.Second, AllowedOrigins: []string{"https://app.unl.edu.ec"}}
	return NewServer(cfg, router, limiter, checks).Handler()
}

func TestServer_Probes(t *testing.T) {
	healthy := true
	h := newTestServer(t, nil, map[string]HealthCheck{
		"postgres": func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("connection refused")
		},
	})

	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	healthy = false
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"unavailable"`)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	h := newTestServer(t, nil, nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestServer_CORSPreflight(t *testing.T) {
	h := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/athletes", nil)
	req.Header.Set("Origin", "https://app.unl.edu.ec")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.unl.edu.ec", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimit(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	limiter.now = func() time.Time { return limiter.lastRefill }
	h := newTestServer(t, limiter, nil)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecovery(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }), Recovery(), RequestID())
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_success":false`)
}

func TestRequestID_StoresAuditContext(t *testing.T) {
	var requestID, ip string
	h := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		requestID = audit.GetRequestID(r.Context())
		ip = audit.GetIPAddress(r.Context())
	}), RequestID())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 172.16.0.1")

	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEmpty(t, requestID)
	assert.Equal(t, "10.0.0.7", ip)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, hasDeadline)
}
