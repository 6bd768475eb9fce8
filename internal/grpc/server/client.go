package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"resume-render/pkg/models"
)

// Client calls ResumeService over an existing connection
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) Compile(ctx context.Context, data *models.ResumeData, opts ...grpc.CallOption) (*models.CompileResponse, error) {
	in, err := toStruct(data)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, CompileMethod, in, out, opts...); err != nil {
		return nil, err
	}
	var resp models.CompileResponse
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Latest(ctx context.Context, opts ...grpc.CallOption) (*models.CompileResponse, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, LatestMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	var resp models.CompileResponse
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
