package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestRateLimiter_RefillsAfterInterval verifies the bucket empties and refills.
func TestRateLimiter_RefillsAfterInterval(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := &RateLimiter{visitors: map[string]*visitor{}, rate: 2, interval: time.Second, now: func() time.Time { return now }}

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("third request within the interval should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other IPs have their own bucket")
	}
	now = now.Add(time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("bucket should refill after the interval")
	}
}

// TestRateLimiter_SweepForgetsIdleVisitors verifies idle entries are dropped.
func TestRateLimiter_SweepForgetsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := &RateLimiter{visitors: map[string]*visitor{}, rate: 1, interval: time.Second, now: func() time.Time { return now }}
	rl.Allow("1.2.3.4")
	now = now.Add(visitorTTL + time.Second)
	rl.sweep()
	if len(rl.visitors) != 0 {
		t.Errorf("expected idle visitor to be swept, have %d", len(rl.visitors))
	}
}

// TestRateLimit_IgnoresPort verifies two connections from one host share a bucket.
func TestRateLimit_IgnoresPort(t *testing.T) {
	rl := &RateLimiter{visitors: map[string]*visitor{}, rate: 1, interval: time.Hour, now: time.Now}
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i, addr := range []string{"10.0.0.1:1111", "10.0.0.1:2222"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rr.Code != want {
			t.Errorf("request %d: status = %d, want %d", i, rr.Code, want)
		}
	}
}

// TestSecurityHeaders_Set verifies the OWASP headers are present.
func TestSecurityHeaders_Set(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing header %s", h)
		}
	}
}

// TestCSRF_BlocksFormPostWithoutToken verifies form posts need a token while JSON is exempt.
func TestCSRF_BlocksFormPostWithoutToken(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	handler := CSRF(key, CSRFOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	form := httptest.NewRequest("POST", "/logout", nil)
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, form)
	if rr.Code != http.StatusForbidden {
		t.Errorf("form post status = %d, want 403", rr.Code)
	}

	js := httptest.NewRequest("POST", "/api/chat", nil)
	js.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, js)
	if rr.Code != http.StatusNoContent {
		t.Errorf("json post status = %d, want 204", rr.Code)
	}
}
