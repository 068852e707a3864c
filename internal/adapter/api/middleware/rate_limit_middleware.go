package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"roostermarket/internal/infrastructure/ratelimit"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/logger"
	"roostermarket/pkg/response"
)

// RateLimit throttles by client IP, or by user when a session is present.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if sess := GetSession(c); sess.IsAuthenticated() {
				key = sess.UserID
			}

			ok, wait := limiter.Allow(key, action)
			if !ok {
				logger.Warn("Rate limit hit for %s on %s", key, action)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
