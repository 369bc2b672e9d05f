package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

// TestKeyedLimiter tests that buckets are independent per key
func TestKeyedLimiter(t *testing.T) {
	kl := NewKeyedLimiter(RateLimitConfig{
		RequestsPerSecond: 0.001,
		Burst:             2,
		CleanupInterval:   time.Hour,
	})
	defer kl.Stop()

	if !kl.Allow("a") || !kl.Allow("a") {
		t.Fatal("Burst of 2 should be allowed")
	}
	if kl.Allow("a") {
		t.Error("Third request should be rejected")
	}
	if !kl.Allow("b") {
		t.Error("Other keys have their own bucket")
	}

	stats := kl.GetStats()
	if stats.Allowed != 3 || stats.Rejected != 1 || stats.Keys != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	kl.Forget("a")
	if !kl.Allow("a") {
		t.Error("Forgotten key should start with a full bucket")
	}
}

// TestKeyedLimiterSweep tests that idle buckets are dropped
func TestKeyedLimiterSweep(t *testing.T) {
	kl := NewKeyedLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Hour})
	defer kl.Stop()

	kl.Allow("old")
	kl.sweep(time.Now().Add(time.Second))
	if n := kl.GetStats().Keys; n != 0 {
		t.Errorf("Expected idle bucket to be swept, %d left", n)
	}
}

// TestConnLimiter tests per-IP connection slots
func TestConnLimiter(t *testing.T) {
	cl := NewConnLimiter(2)

	if !cl.Acquire("1.1.1.1") || !cl.Acquire("1.1.1.1") {
		t.Fatal("Two slots should be available")
	}
	if cl.Acquire("1.1.1.1") {
		t.Error("Third slot should be refused")
	}
	if !cl.Acquire("2.2.2.2") {
		t.Error("Other IPs are counted separately")
	}

	cl.Release("1.1.1.1")
	if cl.Open("1.1.1.1") != 1 {
		t.Errorf("Expected 1 open, got %d", cl.Open("1.1.1.1"))
	}
	cl.Release("1.1.1.1")
	cl.Release("1.1.1.1") // extra release is ignored
	if cl.Open("1.1.1.1") != 0 {
		t.Errorf("Expected 0 open, got %d", cl.Open("1.1.1.1"))
	}
	if cl.Rejected() != 1 {
		t.Errorf("Expected 1 rejection, got %d", cl.Rejected())
	}
}

// TestAllowedOrigins tests the WebSocket origin check
func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"https://127.0.0.1:8080", true},
		{"http://[::1]:3000", true},
		{"http://localhost.evil.com", false},
		{"ws://localhost", false},
		{"https://example.com", false},
	}

	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.want {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}

	AllowedOrigins = []string{"https://example.com"}
	defer func() { AllowedOrigins = []string{} }()
	if !IsAllowedOrigin("https://example.com") {
		t.Error("Configured origin should be allowed")
	}
}

// TestGetClientIP tests proxy header handling
func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		want   string
	}{
		{"remote addr", "", "", "10.0.0.1"},
		{"first forwarded", "1.2.3.4, 10.0.0.1", "", "1.2.3.4"},
		{"skips garbage", "unknown, 5.6.7.8", "", "5.6.7.8"},
		{"real ip", "", "9.9.9.9", "9.9.9.9"},
		{"bad real ip", "", "nope", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "10.0.0.1:1234"
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
