package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/fitness-studio/api/internal/config"
)

// EnrollRateLimiter applies a token bucket per caller to the routes it wraps.
// Callers are keyed by user id, or by IP before authentication.
func EnrollRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
			limiters[key] = l
		}
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, _ := c.Get(ContextKeyUserID).(string)
			if key == "" {
				key = c.RealIP()
			}

			if !limiterFor(key).Allow() {
				return deny(c, http.StatusTooManyRequests, "enrollment rate limit exceeded")
			}

			return next(c)
		}
	}
}
