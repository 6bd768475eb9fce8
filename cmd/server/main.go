package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"resume-render/internal/api/routes"
	"resume-render/internal/compiler"
	"resume-render/internal/config"
	"resume-render/internal/grpc/interceptors"
	"resume-render/internal/grpc/server"
	"resume-render/internal/logging"
	"resume-render/internal/mux"
	"resume-render/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Resume Render", map[string]interface{}{
		"cache_backend": cfg.Cache.Backend,
		"grpc_enabled":  cfg.GRPC.Enabled,
	})

	latest, closeStore := buildStore(cfg, logger)
	defer closeStore()

	pipeline := compiler.New(latest)
	metrics := interceptors.NewMetricsCollector()

	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, pipeline, metrics)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	var multiplexer *mux.Multiplexer
	if cfg.GRPC.Enabled {
		multiplexer = mux.NewMultiplexer(cfg, server.NewServer(cfg, pipeline, metrics), e)
		if err := multiplexer.Start(address); err != nil {
			logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
		}
	} else {
		e.Server.ReadTimeout = cfg.Server.ReadTimeout
		e.Server.WriteTimeout = cfg.Server.WriteTimeout
		e.Server.IdleTimeout = cfg.Server.IdleTimeout
		go func() {
			logger.Info("Server starting", map[string]interface{}{"address": address})
			if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Drain first so requests still in flight finish and new compiles are refused.
	logger.Info("Draining compiler...")
	pipeline.Drain()

	if multiplexer != nil {
		if err := multiplexer.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping multiplexer", map[string]interface{}{"error": err.Error()})
		}
	} else if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Server shutdown complete")
}

// buildStore picks the latest-document store for cfg.Cache.Backend
func buildStore(cfg *config.Config, logger logging.Logger) (store.Store, func()) {
	if cfg.Cache.Backend != "redis" {
		return store.NewMemoryStore(), func() {}
	}

	redisStore := store.NewRedisStore(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	defer cancel()
	if err := redisStore.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable at startup, mirror writes will be retried per compile", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return store.NewMirroredStore(redisStore, logger), func() {
		if err := redisStore.Close(); err != nil {
			logger.Error("Failed to close Redis store", map[string]interface{}{"error": err.Error()})
		}
	}
}
