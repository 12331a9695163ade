package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"liyu1981.xyz/iot-telemetry-service/pkg/iot"
)

const (
	ServiceName = "telemetry.v1.ReadoutService"

	ListReadingsFullMethod = "/" + ServiceName + "/ListReadings"
	GetDeviceFullMethod    = "/" + ServiceName + "/GetDevice"
)

// ReadoutServiceServer is the server API. Requests and responses are
// google.protobuf.Struct so no generated code is needed on either side.
type ReadoutServiceServer interface {
	ListReadings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDevice(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type ReadoutServer struct {
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
}

var _ ReadoutServiceServer = (*ReadoutServer)(nil)

func (s *ReadoutServer) CheckDeviceLimiter(deviceID int64) bool {
	return s.RateLimiterStore.Allow(deviceID)
}

func RegisterReadoutServiceServer(s grpc.ServiceRegistrar, srv ReadoutServiceServer) {
	s.RegisterService(&ReadoutServiceDesc, srv)
}

var ReadoutServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReadoutServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListReadings",
			Handler:    listReadingsHandler,
		},
		{
			MethodName: "GetDevice",
			Handler:    getDeviceHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "telemetry/v1/readout.proto",
}

func listReadingsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReadoutServiceServer).ListReadings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListReadingsFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReadoutServiceServer).ListReadings(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getDeviceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReadoutServiceServer).GetDevice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetDeviceFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReadoutServiceServer).GetDevice(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type ReadoutClient struct {
	cc grpc.ClientConnInterface
}

func NewReadoutClient(cc grpc.ClientConnInterface) *ReadoutClient {
	return &ReadoutClient{cc: cc}
}

func (c *ReadoutClient) ListReadings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListReadingsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReadoutClient) GetDevice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetDeviceFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
