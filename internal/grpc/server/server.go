package server

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"resume-render/internal/config"
	"resume-render/internal/grpc/interceptors"
	"resume-render/internal/logging"
	"resume-render/pkg/models"
)

// Pipeline is the compile service exposed over gRPC
type Pipeline interface {
	Compile(ctx context.Context, data *models.ResumeData) (*models.RenderedDocument, error)
	Latest(ctx context.Context) (*models.RenderedDocument, bool, error)
}

type Server struct {
	cfg        *config.Config
	pipeline   Pipeline
	logger     logging.Logger
	metrics    *interceptors.MetricsCollector
	health     *health.Server
	grpcServer *grpc.Server
}

// NewServer builds the gRPC server with ResumeService, the standard health
// service and reflection registered.
func NewServer(cfg *config.Config, pipeline Pipeline, metrics *interceptors.MetricsCollector) *Server {
	if metrics == nil {
		metrics = interceptors.NewMetricsCollector()
	}

	maxMsg := cfg.GRPC.MaxMessageSize
	if maxMsg <= 0 {
		maxMsg = 32 * 1024 * 1024
	}

	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		logger:   logging.GetGlobalLogger().WithField("component", "grpc"),
		metrics:  metrics,
		health:   health.NewServer(),
	}

	s.grpcServer = grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.MaxRecvMsgSize(maxMsg),
		grpc.MaxSendMsgSize(maxMsg),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(),
			interceptors.LoggingInterceptor(),
			interceptors.MetricsInterceptor(metrics),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(),
			interceptors.StreamLoggingInterceptor(),
			interceptors.StreamMetricsInterceptor(metrics),
		),
	)

	s.grpcServer.RegisterService(&ResumeServiceDesc, s)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Enable reflection for debugging
	reflection.Register(s.grpcServer)

	return s
}

func (s *Server) Start(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", map[string]interface{}{"address": lis.Addr().String()})
	return s.grpcServer.Serve(lis)
}

// Stop marks the service not serving and waits for in-flight calls
func (s *Server) Stop() {
	s.logger.Info("Shutting down gRPC server...")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

func (s *Server) Metrics() *interceptors.MetricsCollector {
	return s.metrics
}
