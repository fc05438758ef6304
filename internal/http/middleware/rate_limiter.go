package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*clientLimiter
	rps        rate.Limit
	burst      int
	idle       time.Duration
	trustProxy bool
	now        func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows rps requests per second per address with the given burst.
// Buckets unused for idle are forgotten. Unless trustProxy is set the address
// is the connection's remote address.
func NewIPRateLimiter(rps float64, burst int, idle time.Duration, trustProxy bool) *IPRateLimiter {
	return &IPRateLimiter{
		limiters:   make(map[string]*clientLimiter),
		rps:        rate.Limit(rps),
		burst:      burst,
		idle:       idle,
		trustProxy: trustProxy,
		now:        time.Now,
	}
}

func (i *IPRateLimiter) Allow(ip string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	for k, c := range i.limiters {
		if now.Sub(c.lastSeen) > i.idle {
			delete(i.limiters, k)
		}
	}

	c, ok := i.limiters[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(i.rps, i.burst)}
		i.limiters[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RateLimit rejects requests over the client's budget with 429.
func RateLimit(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(limiter.clientIP(r)) {
				w.Header().Set(`Retry-After`, `1`)
				http.Error(w, `too many upload requests`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (i *IPRateLimiter) clientIP(r *http.Request) string {
	if fwd := r.Header.Get(`X-Forwarded-For`); i.trustProxy && fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
