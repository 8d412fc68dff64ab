package main

import (
	"google.golang.org/grpc"
)

// registerControl is replaced by the grpcproto-tagged build to register the
// generated control service. By default it is a no-op so the binary builds
// before protoc has run.
var registerControl = func(_ *grpc.Server, _ *decodeService) {}
