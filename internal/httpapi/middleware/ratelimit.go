package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiter keeps one token bucket per client key and forgets keys idle
// longer than ttl.
type limiter struct {
	rate  rate.Limit
	burst int
	ttl   time.Duration

	mu    sync.Mutex
	m     map[string]*visitor
	sweep time.Time
}

func newLimiter(rps float64, burst int, ttl time.Duration) *limiter {
	if burst < 1 {
		burst = 1
	}
	return &limiter{
		rate:  rate.Limit(rps),
		burst: burst,
		ttl:   ttl,
		m:     make(map[string]*visitor),
	}
}

func (l *limiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	v := l.m[key]
	if v == nil {
		v = &visitor{lim: rate.NewLimiter(l.rate, l.burst)}
		l.m[key] = v
	}
	v.seen = now
	if now.Sub(l.sweep) > l.ttl {
		for k, old := range l.m {
			if now.Sub(old.seen) > l.ttl {
				delete(l.m, k)
			}
		}
		l.sweep = now
	}
	l.mu.Unlock()
	return v.lim.AllowN(now, 1)
}

// RateLimit returns a middleware that rate-limits by remote IP.
// Example: RateLimit(120, 60) => 120 req/min with burst 60
func RateLimit(reqPerMin int, burst int) func(http.Handler) http.Handler {
	if reqPerMin <= 0 {
		// disabled
		return func(next http.Handler) http.Handler { return next }
	}
	l := newLimiter(float64(reqPerMin)/60.0, burst, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	// honor X-Forwarded-For if behind a proxy
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
