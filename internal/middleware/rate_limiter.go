package middleware

import (
	"strings"
	"sync"
	"time"

	"bankledger/internal/errors"
	"bankledger/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// 5 req/sec keeps credential stuffing and funding-endpoint abuse in check
	defaultRequestsPerSecond = 5
	defaultBurstSize         = 10

	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorRegistry tracks one token bucket per client IP. Each middleware
// instance owns its registry; separate routers never share buckets.
type visitorRegistry struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func newVisitorRegistry(rps, burst int) *visitorRegistry {
	r := &visitorRegistry{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go r.evictStale()
	return r
}

func (r *visitorRegistry) limiterFor(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.rps, r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (r *visitorRegistry) evictStale() {
	for {
		time.Sleep(cleanupInterval)

		r.mu.Lock()
		for ip, v := range r.visitors {
			if time.Since(v.lastSeen) > visitorTTL {
				delete(r.visitors, ip)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimiter limits requests per client IP with the default budget
func RateLimiter() echo.MiddlewareFunc {
	return RateLimiterWithConfig(defaultRequestsPerSecond, defaultBurstSize)
}

// RateLimiterWithConfig limits requests per client IP with the given
// per-second rate and burst size
func RateLimiterWithConfig(rps int, burst int) echo.MiddlewareFunc {
	registry := newVisitorRegistry(rps, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !registry.limiterFor(getIP(c)).Allow() {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}

// getIP resolves the client IP, preferring proxy headers. Only the first
// X-Forwarded-For entry counts; later entries are appended by intermediaries.
func getIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return c.RealIP()
}
