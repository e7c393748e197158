package middleware

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
	"slotly/cmd/internal/utils/apierror"
	"sync"
	"time"
)

const (
	staleAfter    = 3 * time.Minute
	sweepInterval = time.Minute
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	r         rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients:   make(map[string]*client),
		r:         rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// drop stale entries at most once a minute, on the request path
	if now.Sub(rl.lastSweep) > sweepInterval {
		for key, c := range rl.clients {
			if now.Sub(c.seen) > staleAfter {
				delete(rl.clients, key)
			}
		}
		rl.lastSweep = now
	}

	if c, ok := rl.clients[ip]; ok {
		c.seen = now
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: now}
	return l
}

func (rl *RateLimiter) Allow(ip string) bool {
	return rl.get(ip).AllowN(rl.now(), 1)
}

// Middleware answers 429 once the caller's bucket is empty.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return c.JSON(apierror.TooManyRequestsError.Code(), apierror.TooManyRequestsError)
			}
			return next(c)
		}
	}
}
