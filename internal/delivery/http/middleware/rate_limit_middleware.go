package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"fintrack/internal/delivery/http/response"
	"fintrack/internal/domain/service"
	"fintrack/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// RateLimitMiddleware throttles login attempts per client IP.
type RateLimitMiddleware struct {
	limiter service.RateLimiter
	logger  *slog.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware.
func NewRateLimitMiddleware(limiter service.RateLimiter, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger}
}

// LimitLogin gates the request on the per-IP login quota. Denials carry a
// Retry-After header in whole seconds, rounded up.
func (m *RateLimitMiddleware) LimitLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := "login:" + c.RealIP()

		allowed, retryAfter, err := m.limiter.Allow(c.Request().Context(), key, time.Now())
		if err != nil {
			// A broken limiter backend must not take logins down with it.
			m.logger.Warn("Rate limiter unavailable, allowing request", slog.Any("error", err))

			return next(c)
		}
		if !allowed {
			metrics.LoginAttempts.WithLabelValues("rate_limited").Inc()
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))

			return response.TooManyRequests(c, "TOO_MANY_REQUESTS", "too many login attempts, slow down")
		}

		return next(c)
	}
}
