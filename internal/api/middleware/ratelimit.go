package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"resume-render/internal/logging"
	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

// CompileRateLimiter caps compiles across all callers with a token bucket.
// A non-positive limit disables it.
func CompileRateLimiter(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter.Allow() {
				return next(c)
			}

			requestID := RequestID(c)
			logging.GetGlobalLogger().Warn("Compile rate limit exceeded", map[string]interface{}{
				"request_id": requestID,
				"limit":      perSecond,
				"burst":      burst,
			})

			e := utils.NewRateLimitedError("compile rate limit exceeded")
			return c.JSON(e.Code, models.ErrorResponse{
				Error:     e.Kind,
				Message:   e.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
	}
}
