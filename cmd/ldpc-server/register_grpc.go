//go:build grpcproto

package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	pb "github.com/observe-l/ldpc-go/cmd/ldpc-server/pb"
)

// controlGRPC adapts the decode service to the generated control API.
// Build with -tags grpcproto after generating the stubs from control.proto.
type controlGRPC struct {
	pb.UnimplementedControlServer
	inner *decodeService
}

func (c *controlGRPC) GetInfo(context.Context, *emptypb.Empty) (*pb.CodeInfo, error) {
	code := c.inner.code
	return &pb.CodeInfo{
		MessageBits:   int32(code.MessageBits()),
		EncodedBits:   int32(code.EncodedBits()),
		ParityBits:    int32(code.ParityBits()),
		BitflipChance: code.BitflipChance(),
		MaxIterations: int32(code.MaxIterations()),
	}, nil
}

func (c *controlGRPC) SetChannel(_ context.Context, req *pb.ChannelParams) (*emptypb.Empty, error) {
	if err := c.inner.code.SetBitflipChance(req.BitflipChance); err != nil {
		return nil, err
	}
	if err := c.inner.code.SetMaxIterations(int(req.MaxIterations)); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func init() {
	registerControl = func(grpcSrv *grpc.Server, inner *decodeService) {
		pb.RegisterControlServer(grpcSrv, &controlGRPC{inner: inner})
	}
}
