package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuth(t *testing.T) {
	var seen int64
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserID(r.Context())
		require.True(t, ok)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not a number", "abc", http.StatusUnauthorized},
		{"negative", "-3", http.StatusUnauthorized},
		{"zero", "0", http.StatusUnauthorized},
		{"valid", "42", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, int64(42), seen)
}

func TestGetUserID_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req.Context())
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, fromCtx)

	const given = "0b9c5c5e-6a55-4a8f-9b3c-0d3f8d6f2a11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, given, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestRateLimiter(t *testing.T) {
	limiter, err := NewRateLimiter(0.001, 2, time.Minute, nil)
	require.NoError(t, err)
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	call := func(ip, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		if forwardedFor != "" {
			req.Header.Set("X-Forwarded-For", forwardedFor)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1", ""))
	assert.Equal(t, http.StatusOK, call("10.0.0.1", "198.51.100.1"))
	// подмена X-Forwarded-For без доверенного прокси не сбрасывает лимит
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1", "198.51.100.2"))

	// у другого адреса свой лимит
	assert.Equal(t, http.StatusOK, call("10.0.0.2", ""))
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	limiter, err := NewRateLimiter(1, 1, time.Minute, nil)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.getLimiter("10.0.0.1")
	limiter.getLimiter("10.0.0.2")
	assert.Len(t, limiter.visitors, 2)

	now = now.Add(30 * time.Second)
	limiter.getLimiter("10.0.0.2")

	now = now.Add(45 * time.Second)
	limiter.getLimiter("10.0.0.3")

	assert.Len(t, limiter.visitors, 2)
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.2")
	assert.Contains(t, limiter.visitors, "10.0.0.3")
}

func TestNewRateLimiter_InvalidProxy(t *testing.T) {
	_, err := NewRateLimiter(1, 1, time.Minute, []string{"not-an-ip"})
	assert.Error(t, err)

	_, err = NewRateLimiter(1, 1, time.Minute, []string{"10.0.0.0/33"})
	assert.Error(t, err)
}

func TestClientIP(t *testing.T) {
	limiter, err := NewRateLimiter(1, 1, time.Minute, []string{"10.0.0.0/8", "192.168.1.5"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct client", "203.0.113.9:1234", "", "", "203.0.113.9"},
		{"untrusted remote ignores headers", "203.0.113.9:1234", "198.51.100.1", "198.51.100.2", "203.0.113.9"},
		{"trusted proxy without headers", "192.168.1.5:1234", "", "", "192.168.1.5"},
		{"trusted proxy with real ip", "192.168.1.5:1234", "", "172.16.0.9", "172.16.0.9"},
		{"rightmost untrusted hop", "10.1.2.3:1234", "198.51.100.1, 203.0.113.7, 10.0.0.4", "", "203.0.113.7"},
		{"all hops trusted", "10.1.2.3:1234", "10.0.0.5, 10.0.0.4", "", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, limiter.clientIP(req))
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/salons/{salonId}/config", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/salons/7/config", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	counter := m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/salons/{salonId}/config", "404")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}
