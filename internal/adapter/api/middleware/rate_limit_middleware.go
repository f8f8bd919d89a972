package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"chatmarket/internal/infrastructure/ratelimit"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
	"chatmarket/pkg/response"
)

// RateLimit spends one token of action per request. Authenticated callers
// are keyed by account, anonymous ones by client IP.
func RateLimit(limiter *ratelimit.RateLimiter, action ratelimit.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UserID(c)
			if key == "" {
				key = c.RealIP()
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				logger.Warn("RATE LIMIT: %s blocked on %s (retry in %ds)", key, action, retryAfter)

				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded, try again later"))
			}

			return next(c)
		}
	}
}
