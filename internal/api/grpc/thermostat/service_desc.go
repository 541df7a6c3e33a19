package thermostat

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "thermoslots.v1.ThermostatService"

	createSessionMethod = "/" + ServiceName + "/CreateSession"
	getSnapshotMethod   = "/" + ServiceName + "/GetSnapshot"
	dispatchMethod      = "/" + ServiceName + "/Dispatch"
)

// ThermostatServiceServer is the server API of the thermostat service.
type ThermostatServiceServer interface {
	// CreateSession opens a session and returns its id.
	CreateSession(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error)
	// GetSnapshot returns the snapshot Struct of a session.
	GetSnapshot(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	// Dispatch applies an action Struct and returns the snapshot and notice.
	Dispatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterThermostatServiceServer registers srv on registrar.
func RegisterThermostatServiceServer(registrar grpc.ServiceRegistrar, srv ThermostatServiceServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptors are package-level by grpc convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ThermostatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSession", Handler: createSessionHandler},
		{MethodName: "GetSnapshot", Handler: getSnapshotHandler},
		{MethodName: "Dispatch", Handler: dispatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "thermoslots/v1/thermostat.proto",
}

func createSessionHandler(
	srv any,
	ctx context.Context, //nolint:revive // Argument order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ThermostatServiceServer).CreateSession(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createSessionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ThermostatServiceServer).CreateSession(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func getSnapshotHandler(
	srv any,
	ctx context.Context, //nolint:revive // Argument order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ThermostatServiceServer).GetSnapshot(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getSnapshotMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ThermostatServiceServer).GetSnapshot(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

func dispatchHandler(
	srv any,
	ctx context.Context, //nolint:revive // Argument order is fixed by grpc.MethodHandler.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ThermostatServiceServer).Dispatch(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: dispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ThermostatServiceServer).Dispatch(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

// ThermostatServiceClient is the client API of the thermostat service.
type ThermostatServiceClient interface {
	CreateSession(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetSnapshot(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type thermostatServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewThermostatServiceClient returns a client stub bound to cc.
func NewThermostatServiceClient(cc grpc.ClientConnInterface) ThermostatServiceClient {
	return &thermostatServiceClient{cc: cc}
}

func (c *thermostatServiceClient) CreateSession(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, createSessionMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *thermostatServiceClient) GetSnapshot(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getSnapshotMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *thermostatServiceClient) Dispatch(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, dispatchMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
