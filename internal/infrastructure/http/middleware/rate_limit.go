package middleware

import (
	"strconv"
	"time"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/ratelimit"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimit applies a fixed-window limit per user, or per client IP for anonymous requests.
// Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if userID, ok := GetUserID(c); ok {
				key = "user:" + userID.String()
			}

			res, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				if logger != nil {
					logger.Warn("⚠️ Rate limiter unavailable, allowing request",
						zap.String("key", key),
						zap.Error(err),
					)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))

			if !res.Success {
				h.Set("Retry-After", strconv.Itoa(retryAfter(res)))
				return errors.ErrRateLimited(res.Limit, res.Reset)
			}
			return next(c)
		}
	}
}

func retryAfter(res ratelimit.Result) int {
	secs := int(time.Until(res.Reset).Seconds() + 0.999)
	if secs < 1 {
		return 1
	}
	return secs
}
