package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-render/internal/api/middleware"
	"resume-render/internal/config"
	"resume-render/internal/logging"
	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

// Version is reported by health and status endpoints
const Version = "1.0.0"

var startTime = time.Now()

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{"request_id": middleware.RequestID(c)})

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler reports ready once the latest-document store answers
func ReadinessHandler(pipeline Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)
		logger := logging.LogWithRequestID(requestID)

		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status, code, storeCheck := "ready", http.StatusOK, "ok"
		if _, _, err := pipeline.Latest(ctx); err != nil {
			logger.Warn("Readiness check failed", map[string]interface{}{"error": err.Error()})
			status, code, storeCheck = "not_ready", http.StatusServiceUnavailable, "unreachable"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api":   "ok",
				"store": storeCheck,
			},
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status
func StatusHandler(cfg *config.Config, pipeline Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Status check requested", map[string]interface{}{"request_id": middleware.RequestID(c)})

		latest := "none"
		if doc, ok, err := pipeline.Latest(c.Request().Context()); err != nil {
			latest = "unavailable"
		} else if ok {
			latest = doc.GeneratedAt.UTC().Format(time.RFC3339)
		}

		grpcState := "disabled"
		if cfg.GRPC.Enabled {
			grpcState = "enabled"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api":             "operational",
				"cache_backend":   cfg.Cache.Backend,
				"grpc":            grpcState,
				"latest_document": latest,
				"uptime":          utils.FormatDuration(time.Since(startTime)),
			},
		})
	}
}
