package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{"no trusted proxies", nil, "10.0.0.1:4000", "203.0.113.9", "", "10.0.0.1:4000"},
		{"untrusted source", []string{"10.0.0.0/8"}, "192.0.2.7:4000", "203.0.113.9", "", "192.0.2.7:4000"},
		{"trusted real ip", []string{"10.0.0.0/8"}, "10.0.0.1:4000", "203.0.113.9", "", "203.0.113.9"},
		{"trusted forwarded for", []string{"10.0.0.0/8"}, "10.0.0.1:4000", "", "203.0.113.9, 10.0.0.2", "203.0.113.9"},
		{"real ip wins", []string{"10.0.0.0/8"}, "10.0.0.1:4000", "203.0.113.9", "198.51.100.1", "203.0.113.9"},
		{"single address", []string{"127.0.0.1"}, "127.0.0.1:4000", "203.0.113.9", "", "203.0.113.9"},
		{"invalid header", []string{"10.0.0.0/8"}, "10.0.0.1:4000", "not-an-ip", "", "10.0.0.1:4000"},
		{"invalid cidr skipped", []string{"bogus", "10.0.0.0/8"}, "10.0.0.1:4000", "203.0.113.9", "", "203.0.113.9"},
		{"ipv6 proxy", []string{"::1"}, "[::1]:4000", "2001:db8::1", "", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth_NoKeys(t *testing.T) {
	called := false
	h := APIKeyAuth(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	if !called {
		t.Error("request without configured keys was rejected")
	}
}

func TestIsValidAPIKey(t *testing.T) {
	keys := []string{"alpha", "beta"}
	tests := []struct {
		key  string
		want bool
	}{
		{"alpha", true},
		{"beta", true},
		{"gamma", false},
		{"alph", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isValidAPIKey(tt.key, keys); got != tt.want {
			t.Errorf("isValidAPIKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst not allowed")
	}
	if rl.Allow("a") {
		t.Error("third request allowed")
	}
	if !rl.Allow("b") {
		t.Error("other client limited")
	}
}

func TestLogger_CapturesStatus(t *testing.T) {
	var ww *responseWriter
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww = w.(*responseWriter)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot || ww.status != http.StatusTeapot {
		t.Errorf("status = %d/%d, want %d", rec.Code, ww.status, http.StatusTeapot)
	}
	if ww.bytes != len("short and stout") {
		t.Errorf("bytes = %d", ww.bytes)
	}
}
