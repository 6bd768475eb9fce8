package server

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"resume-render/internal/api/validation"
	"resume-render/internal/logging"
	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

// Compile implements the Compile gRPC method
func (s *Server) Compile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logger := logging.LogWithRequestID(utils.RequestIDFromContext(ctx))

	var data models.ResumeData
	if err := fromStruct(req, &data); err != nil {
		logger.Warn("Failed to decode gRPC resume", map[string]interface{}{"error": err.Error()})
		return nil, status.Error(codes.InvalidArgument, "request is not a resume record")
	}

	doc, err := s.pipeline.Compile(ctx, &data)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := toStruct(models.NewCompileResponse(doc))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// Latest implements the Latest gRPC method
func (s *Server) Latest(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	doc, ok, err := s.pipeline.Latest(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "no document has been compiled yet")
	}

	resp, err := toStruct(models.NewCompileResponse(doc))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// toStatus maps compile failure classes onto gRPC codes. Validation
// failures carry one BadRequest field violation per rejected field.
func toStatus(err error) error {
	switch {
	case errors.Is(err, utils.ErrInvalidInput):
		st := status.New(codes.InvalidArgument, err.Error())
		var verr *validation.Error
		if errors.As(err, &verr) {
			br := &errdetails.BadRequest{}
			for _, f := range verr.Fields {
				br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
					Field:       f.Field,
					Description: f.Message,
				})
			}
			if detailed, derr := st.WithDetails(br); derr == nil {
				st = detailed
			}
		}
		return st.Err()
	case errors.Is(err, utils.ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
