package api

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures a token bucket per key
type RateLimitConfig struct {
	RequestsPerSecond float64       // Sustained rate per key
	Burst             int           // Bucket size
	CleanupInterval   time.Duration // Idle keys are forgotten after twice this
}

// DefaultRateLimitConfig limits HTTP requests per client IP
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 10,
	Burst:             20,
	CleanupInterval:   5 * time.Minute,
}

// DefaultCommandRateConfig limits WebSocket input and aim commands per
// shooter: two per tick at 60 TPS, with a second of slack.
var DefaultCommandRateConfig = RateLimitConfig{
	RequestsPerSecond: 120,
	Burst:             120,
	CleanupInterval:   time.Minute,
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LimiterStats are cumulative counters for one KeyedLimiter
type LimiterStats struct {
	Allowed  uint64 `json:"allowed"`
	Rejected uint64 `json:"rejected"`
	Keys     int    `json:"keys"`
}

// KeyedLimiter keeps one token bucket per key (client IP, shooter ID).
// A background loop drops buckets that have been idle.
type KeyedLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	cfg      RateLimitConfig
	allowed  uint64
	rejected uint64

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewKeyedLimiter creates a limiter and starts its cleanup loop
func NewKeyedLimiter(cfg RateLimitConfig) *KeyedLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimitConfig.CleanupInterval
	}
	kl := &KeyedLimiter{
		buckets:  make(map[string]*bucket),
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
	go kl.cleanupLoop()
	return kl
}

// Stop ends the cleanup loop. Allow keeps working afterwards.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() { close(kl.stopChan) })
}

// Allow spends one token from key's bucket
func (kl *KeyedLimiter) Allow(key string) bool {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	b, ok := kl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(kl.cfg.RequestsPerSecond), kl.cfg.Burst)}
		kl.buckets[key] = b
	}
	b.lastSeen = time.Now()

	if b.limiter.Allow() {
		kl.allowed++
		return true
	}
	kl.rejected++
	return false
}

// Forget drops key's bucket, e.g. when a shooter leaves
func (kl *KeyedLimiter) Forget(key string) {
	kl.mu.Lock()
	delete(kl.buckets, key)
	kl.mu.Unlock()
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopChan:
			return
		case now := <-ticker.C:
			kl.sweep(now.Add(-2 * kl.cfg.CleanupInterval))
		}
	}
}

// sweep removes buckets not used since cutoff
func (kl *KeyedLimiter) sweep(cutoff time.Time) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	for key, b := range kl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(kl.buckets, key)
		}
	}
}

// GetStats returns the limiter counters
func (kl *KeyedLimiter) GetStats() LimiterStats {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return LimiterStats{Allowed: kl.allowed, Rejected: kl.rejected, Keys: len(kl.buckets)}
}

// Middleware rejects requests over the per-IP rate with 429
func (kl *KeyedLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !kl.Allow(GetClientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			writeError(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientIP returns the client address, trusting the first valid
// X-Forwarded-For or X-Real-IP entry. Only safe behind a proxy that sets them.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip.String()
			}
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ConnLimiter caps concurrent WebSocket connections per IP
type ConnLimiter struct {
	mu       sync.Mutex
	open     map[string]int
	maxPerIP int
	rejected uint64
}

// NewConnLimiter creates a limiter allowing maxPerIP open connections
func NewConnLimiter(maxPerIP int) *ConnLimiter {
	return &ConnLimiter{open: make(map[string]int), maxPerIP: maxPerIP}
}

// Acquire reserves a slot for ip. Every successful Acquire needs a Release.
func (cl *ConnLimiter) Acquire(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.open[ip] >= cl.maxPerIP {
		cl.rejected++
		return false
	}
	cl.open[ip]++
	return true
}

// Release frees a slot reserved by Acquire
func (cl *ConnLimiter) Release(ip string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	switch n := cl.open[ip]; {
	case n > 1:
		cl.open[ip] = n - 1
	case n == 1:
		delete(cl.open, ip)
	}
}

// Open returns the number of connections held by ip
func (cl *ConnLimiter) Open(ip string) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.open[ip]
}

// Rejected returns how many connections were refused
func (cl *ConnLimiter) Rejected() uint64 {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.rejected
}

// AllowedOrigins defines extra origins for WebSocket connections beyond
// localhost. Set from main before the server starts.
var AllowedOrigins = []string{}

// IsAllowedOrigin accepts http(s) origins on a loopback host, any port,
// plus the exact entries of AllowedOrigins.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range AllowedOrigins {
		if origin == allowed {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}
