package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"resume-render/internal/api/handlers"
	"resume-render/internal/api/middleware"
	"resume-render/internal/config"
	"resume-render/internal/grpc/interceptors"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, pipeline handlers.Pipeline, metrics *interceptors.MetricsCollector) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestContext(cfg.Compile.MaxRequestBytes))
	if cfg.Server.ReadTimeout > 0 {
		e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))
	}

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(pipeline))
		health.GET("/live", handlers.LivenessHandler)
	}

	e.GET("/status", handlers.StatusHandler(cfg, pipeline))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		resume := v1.Group("/resume")
		{
			resume.POST("/compile", handlers.CompileResumeHandler(pipeline),
				middleware.CompileRateLimiter(cfg.Compile.RateLimit, cfg.Compile.Burst))
			resume.GET("/latest", handlers.LatestResumeHandler(pipeline))
			resume.GET("/latest/pdf", handlers.LatestPDFHandler(pipeline))
			resume.GET("/latest/preview", handlers.LatestPreviewHandler(pipeline))
			resume.GET("/latest/latex", handlers.LatestLatexHandler(pipeline))
		}

		proto := v1.Group("/proto")
		{
			proto.GET("/resume.proto", handlers.ProtoHandler())
			proto.GET("/metadata", handlers.ProtoMetadataHandler(metrics))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Resume Render",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
