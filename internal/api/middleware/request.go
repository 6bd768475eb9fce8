package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

// RequestContext assigns a request ID (reusing a caller-supplied X-Request-ID),
// exposes it to handlers and the request context, and rejects POST bodies
// larger than maxBytes.
func RequestContext(maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateRequestID()
			}
			c.Set("request_id", requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			req := c.Request()
			c.SetRequest(req.WithContext(utils.ContextWithRequestID(req.Context(), requestID)))

			if req.Method == http.MethodPost && maxBytes > 0 {
				if req.ContentLength > maxBytes {
					e := utils.NewRequestTooLargeError(maxBytes)
					return c.JSON(e.Code, models.ErrorResponse{
						Error:     e.Kind,
						Message:   e.Message,
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
				// Bodies without a declared length are cut off here; handlers
				// see *http.MaxBytesError from Bind.
				c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxBytes)
			}

			return next(c)
		}
	}
}

// RequestID returns the ID assigned by RequestContext
func RequestID(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
