package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-render/internal/api/middleware"
	"resume-render/internal/grpc/interceptors"
	"resume-render/internal/grpc/server"
	"resume-render/internal/logging"
)

const protoETag = `"resumerender-v1"`

// ProtoHandler serves the ResumeService protobuf definition
func ProtoHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "public, max-age=3600")
		h.Set("ETag", protoETag)
		h.Set("X-Proto-Version", "v1")
		h.Set("X-Service-Name", server.ServiceName)

		if match := c.Request().Header.Get("If-None-Match"); match == protoETag {
			return c.NoContent(http.StatusNotModified)
		}

		logging.LogWithRequestID(middleware.RequestID(c)).Debug("Proto file served", map[string]interface{}{
			"client_ip":  c.RealIP(),
			"user_agent": c.Request().UserAgent(),
		})

		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(server.ProtoDefinition))
	}
}

// ProtoMetadataHandler describes the gRPC surface and its call statistics
func ProtoMetadataHandler(metrics *interceptors.MetricsCollector) echo.HandlerFunc {
	return func(c echo.Context) error {
		metadata := map[string]interface{}{
			"service_name":  server.ServiceName,
			"proto_version": "v1",
			"download_url":  "/api/v1/proto/resume.proto",
			"grpc_services": []string{
				server.ServiceName,
				"grpc.health.v1.Health",
			},
			"supported_features": []string{
				"multiplexed_protocols",
				"structured_logging",
				"struct_messages",
			},
		}
		if metrics != nil {
			metadata["method_metrics"] = metrics.Snapshot()
		}
		return c.JSON(http.StatusOK, metadata)
	}
}
