package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestRateLimiter(perMinute, burst int) (*RateLimiter, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter(perMinute, burst)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()
	l, now := newTestRateLimiter(60, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, l.Allow("10.0.0.2"), "clients have separate buckets")

	*now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "one token refills per second at 60/min")
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	t.Parallel()
	l, now := newTestRateLimiter(60, 1)

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	assert.Len(t, l.clients, 2)

	*now = now.Add(idleClientTTL + time.Minute)
	l.Allow("10.0.0.3")
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "10.0.0.3")
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Parallel()
	l, _ := newTestRateLimiter(6, 1)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := l.Middleware(next)

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1234").Code)

	limited := send("192.0.2.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"message":"Too many requests"}`, limited.Body.String())

	assert.Equal(t, http.StatusOK, send("192.0.2.2:1234").Code)
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4444"
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
