package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "wealthsim.v1.ProjectionService"

// Method names of ServiceName
const (
	MethodRunProjection = "RunProjection"
	MethodRunScenario   = "RunScenario"
	MethodGetHistory    = "GetHistory"
	MethodGetComparison = "GetComparison"
	MethodListScenarios = "ListScenarios"
)

// FullMethod returns the wire path of a method, e.g. /wealthsim.v1.ProjectionService/RunProjection
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ProjectionServiceServer is the server API. Every message is a
// google.protobuf.Struct carrying the JSON form of the request or response.
type ProjectionServiceServer interface {
	RunProjection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RunScenario(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetComparison(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListScenarios(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(ProjectionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ProjectionServiceDesc describes ServiceName for grpc.Server.RegisterService
var ProjectionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProjectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodRunProjection, Handler: unaryHandler(MethodRunProjection, ProjectionServiceServer.RunProjection)},
		{MethodName: MethodRunScenario, Handler: unaryHandler(MethodRunScenario, ProjectionServiceServer.RunScenario)},
		{MethodName: MethodGetHistory, Handler: unaryHandler(MethodGetHistory, ProjectionServiceServer.GetHistory)},
		{MethodName: MethodGetComparison, Handler: unaryHandler(MethodGetComparison, ProjectionServiceServer.GetComparison)},
		{MethodName: MethodListScenarios, Handler: unaryHandler(MethodListScenarios, ProjectionServiceServer.ListScenarios)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wealthsim/v1/projection.proto",
}

// RegisterProjectionServiceServer registers srv on s
func RegisterProjectionServiceServer(s grpc.ServiceRegistrar, srv ProjectionServiceServer) {
	s.RegisterService(&ProjectionServiceDesc, srv)
}

func unaryHandler(method string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProjectionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProjectionServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ProjectionServiceClient calls ServiceName over a client connection
type ProjectionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProjectionServiceClient creates a client on cc
func NewProjectionServiceClient(cc grpc.ClientConnInterface) *ProjectionServiceClient {
	return &ProjectionServiceClient{cc: cc}
}

func (c *ProjectionServiceClient) RunProjection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRunProjection, in, opts...)
}

func (c *ProjectionServiceClient) RunScenario(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRunScenario, in, opts...)
}

func (c *ProjectionServiceClient) GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetHistory, in, opts...)
}

func (c *ProjectionServiceClient) GetComparison(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetComparison, in, opts...)
}

func (c *ProjectionServiceClient) ListScenarios(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListScenarios, in, opts...)
}

func (c *ProjectionServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
