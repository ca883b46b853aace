package ratelimit

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/dharmasatrya/flightreservation/internal/models"
)

// SessionLimiter hands out one token bucket per session. Buckets idle for
// longer than IdleTTL are dropped; IdleTTL should exceed the time a bucket
// needs to refill, so a dropped bucket and a fresh one are the same.
type SessionLimiter struct {
	limiters  map[string]*entry
	mu        sync.RWMutex
	defaults  RateLimitConfig
	lastSweep time.Time
	now       func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	IdleTTL           time.Duration
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		IdleTTL:           10 * time.Minute,
	}
}

func NewSessionLimiter(config RateLimitConfig) *SessionLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultConfig().IdleTTL
	}
	return &SessionLimiter{
		limiters: make(map[string]*entry),
		defaults: config,
		now:      time.Now,
	}
}

func (p *SessionLimiter) GetLimiter(session string) *rate.Limiter {
	now := p.now()

	p.mu.RLock()
	e, exists := p.limiters[session]
	p.mu.RUnlock()

	if exists {
		e.lastSeen.Store(now.UnixNano())
		return e.limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if e, exists = p.limiters[session]; exists {
		e.lastSeen.Store(now.UnixNano())
		return e.limiter
	}

	if now.Sub(p.lastSweep) >= p.defaults.IdleTTL {
		p.sweep(now)
	}

	e = &entry{limiter: rate.NewLimiter(rate.Limit(p.defaults.RequestsPerSecond), p.defaults.BurstSize)}
	e.lastSeen.Store(now.UnixNano())
	p.limiters[session] = e
	return e.limiter
}

// sweep must be called with mu held.
func (p *SessionLimiter) sweep(now time.Time) {
	p.lastSweep = now
	cutoff := now.Add(-p.defaults.IdleTTL).UnixNano()
	for session, e := range p.limiters {
		if e.lastSeen.Load() <= cutoff {
			delete(p.limiters, session)
		}
	}
}

func (p *SessionLimiter) Allow(session string) bool {
	return p.GetLimiter(session).Allow()
}

// Middleware rejects a request with 429 once its session's bucket is empty.
// keyFn extracts the session from the request.
func (p *SessionLimiter) Middleware(keyFn func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !p.Allow(keyFn(c)) {
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:   "rate_limited",
					Message: "Too many requests, slow down.",
					Code:    http.StatusTooManyRequests,
				})
			}
			return next(c)
		}
	}
}
