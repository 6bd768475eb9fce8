package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"resume-render/internal/logging"
	"resume-render/pkg/utils"
)

// RequestIDKey is the metadata key carrying a caller-supplied request ID
const RequestIDKey = "x-request-id"

// requestID reuses the caller's x-request-id or generates one
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return utils.GenerateRequestID()
}

// LoggingInterceptor tags the context with a request ID, echoes it in the
// response header and logs the outcome of each unary call
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()
		id := requestID(ctx)
		logger := logging.LogWithRequestID(id)

		ctx = utils.ContextWithRequestID(ctx, id)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, id))

		resp, err := handler(ctx, req)

		fields := map[string]interface{}{
			"method":          info.FullMethod,
			"processing_time": utils.FormatDuration(time.Since(startTime)),
			"status_code":     status.Code(err).String(),
			"type":            "grpc_request_complete",
		}
		if err != nil {
			fields["error"] = err.Error()
			logger.Error("gRPC request failed", fields)
		} else {
			logger.Info("gRPC request completed", fields)
		}

		return resp, err
	}
}

// StreamLoggingInterceptor logs the outcome of each stream
func StreamLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		startTime := time.Now()
		logger := logging.LogWithRequestID(requestID(ss.Context()))

		err := handler(srv, ss)

		fields := map[string]interface{}{
			"method":          info.FullMethod,
			"processing_time": utils.FormatDuration(time.Since(startTime)),
			"status_code":     status.Code(err).String(),
			"type":            "grpc_stream_complete",
		}
		if err != nil {
			fields["error"] = err.Error()
			logger.Error("gRPC stream failed", fields)
		} else {
			logger.Debug("gRPC stream completed", fields)
		}

		return err
	}
}
