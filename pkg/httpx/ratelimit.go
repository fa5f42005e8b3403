package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig describes a token-bucket limit applied per key.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int

	// TTL controls how long an idle key keeps its bucket before cleanup.
	TTL time.Duration
}

// Rate limit profiles. Strict guards credential endpoints, Moderate guards
// chat completions, Lenient covers everything else.
var (
	StrictRateLimit   = RateLimitConfig{RequestsPerSecond: 1, Burst: 5, TTL: 10 * time.Minute}
	ModerateRateLimit = RateLimitConfig{RequestsPerSecond: 2, Burst: 10, TTL: 10 * time.Minute}
	LenientRateLimit  = RateLimitConfig{RequestsPerSecond: 10, Burst: 30, TTL: 10 * time.Minute}
)

// KeyExtractor derives the bucket key for a request.
type KeyExtractor func(r *http.Request) string

// KeyByIP buckets requests by client IP. Used before authentication.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// KeyBySubject buckets requests by authenticated subject, falling back to IP
// when the request is anonymous.
func KeyBySubject(r *http.Request) string {
	if sub, ok := SubjectFromContext(r.Context()); ok {
		return "sub:" + sub
	}
	return "ip:" + KeyByIP(r)
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	cfg     RateLimitConfig
	extract KeyExtractor

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

// RateLimit returns a middleware enforcing cfg per extracted key. Idle
// buckets are evicted lazily as new requests come in.
func RateLimit(cfg RateLimitConfig, extract KeyExtractor) Middleware {
	rl := &rateLimiter{
		cfg:     cfg,
		extract: extract,
		entries: make(map[string]*limiterEntry),
	}
	return rl.middleware
}

// RateLimitByIP is RateLimit keyed on client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, KeyByIP)
}

// RateLimitBySubject is RateLimit keyed on the authenticated user.
func RateLimitBySubject(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, KeyBySubject)
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.extract(r)) {
			w.Header().Set("Retry-After", "1")
			WriteError(w, http.StatusTooManyRequests,
				"rate_limited",
				"Too many requests, slow down",
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *rateLimiter) allow(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.entries[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst),
		}
		rl.entries[key] = entry
		rl.sweepLocked(now)
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// sweepLocked drops buckets idle past the TTL. Called with rl.mu held.
func (rl *rateLimiter) sweepLocked(now time.Time) {
	if rl.cfg.TTL <= 0 || len(rl.entries) < 1024 {
		return
	}
	for key, entry := range rl.entries {
		if now.Sub(entry.lastSeen) > rl.cfg.TTL {
			delete(rl.entries, key)
		}
	}
}
