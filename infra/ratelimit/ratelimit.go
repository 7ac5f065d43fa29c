// Package ratelimit throttles requests with a token bucket per caller.
package ratelimit

import (
	"sync"
	"time"

	"smartmethods/bizerror"
	"smartmethods/session"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	DefaultRequestsPerSecond = 20
	DefaultBurst             = 40

	idleExpiration = 10 * time.Minute
)

type Limiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters *cache.Cache
}

// New returns a Limiter, non-positive arguments fall back to the defaults.
func New(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Limiter{
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		limiters: cache.New(idleExpiration, time.Minute),
	}
}

func (l *Limiter) Allow(key string) bool {
	return l.limiterOf(key).Allow()
}

func (l *Limiter) limiterOf(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, found := l.limiters.Get(key); found {
		// touch to extend the idle expiration
		l.limiters.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.SetDefault(key, limiter)
	return limiter
}

// Middleware keys callers by the session identity, anonymous requests by client IP.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip/" + c.ClientIP()
		if s := session.ExtractSessionFromGinContext(c); s.Authenticated() {
			key = "user/" + s.Identity.ID.String()
		}
		if !l.Allow(key) {
			panic(bizerror.ErrTooManyRequests)
		}
		c.Next()
	}
}
