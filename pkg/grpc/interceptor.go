package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// CreateRateLimitInterceptor limits the listed methods per device_id.
// Requests without a usable device_id are left to the handler.
func (s *ReadoutServer) CreateRateLimitInterceptor(targetMethods []string) grpc.UnaryServerInterceptor {
	targets := make(map[string]bool, len(targetMethods))
	for _, m := range targetMethods {
		targets[m] = true
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if targets[info.FullMethod] {
			if r, ok := req.(*structpb.Struct); ok {
				if deviceID, err := deviceIDField(r); err == nil && deviceID != nil {
					if !s.CheckDeviceLimiter(*deviceID) {
						return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
					}
				}
			}
		}

		return handler(ctx, req)
	}
}
