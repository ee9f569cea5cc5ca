package catalogrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	CatalogServiceName = "unihub.catalog.v1.CatalogService"
	LogServiceName     = "unihub.logs.v1.LogService"
)

// CatalogServiceServer serves program lookups.
type CatalogServiceServer interface {
	ListPrograms(context.Context, *ListProgramsRequest) (*ListProgramsResponse, error)
	GetProgram(context.Context, *GetProgramRequest) (*GetProgramResponse, error)
}

// LogServiceServer exposes the in-memory log buffer.
type LogServiceServer interface {
	QueryLogs(context.Context, *QueryLogsRequest) (*QueryLogsResponse, error)
	LogStats(context.Context, *LogStatsRequest) (*LogStatsResponse, error)
	ClearLogs(context.Context, *ClearLogsRequest) (*ClearLogsResponse, error)
}

type UnimplementedCatalogServiceServer struct{}

func (UnimplementedCatalogServiceServer) ListPrograms(context.Context, *ListProgramsRequest) (*ListProgramsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPrograms not implemented")
}

func (UnimplementedCatalogServiceServer) GetProgram(context.Context, *GetProgramRequest) (*GetProgramResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProgram not implemented")
}

type UnimplementedLogServiceServer struct{}

func (UnimplementedLogServiceServer) QueryLogs(context.Context, *QueryLogsRequest) (*QueryLogsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method QueryLogs not implemented")
}

func (UnimplementedLogServiceServer) LogStats(context.Context, *LogStatsRequest) (*LogStatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method LogStats not implemented")
}

func (UnimplementedLogServiceServer) ClearLogs(context.Context, *ClearLogsRequest) (*ClearLogsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearLogs not implemented")
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

func RegisterLogServiceServer(s grpc.ServiceRegistrar, srv LogServiceServer) {
	s.RegisterService(&LogService_ServiceDesc, srv)
}

// unary builds a method handler for one request/response pair.
func unary[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListPrograms",
			Handler:    unary("/"+CatalogServiceName+"/ListPrograms", CatalogServiceServer.ListPrograms),
		},
		{
			MethodName: "GetProgram",
			Handler:    unary("/"+CatalogServiceName+"/GetProgram", CatalogServiceServer.GetProgram),
		},
	},
	Streams: []grpc.StreamDesc{},
}

var LogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: LogServiceName,
	HandlerType: (*LogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "QueryLogs",
			Handler:    unary("/"+LogServiceName+"/QueryLogs", LogServiceServer.QueryLogs),
		},
		{
			MethodName: "LogStats",
			Handler:    unary("/"+LogServiceName+"/LogStats", LogServiceServer.LogStats),
		},
		{
			MethodName: "ClearLogs",
			Handler:    unary("/"+LogServiceName+"/ClearLogs", LogServiceServer.ClearLogs),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// CatalogServiceClient is the client side of CatalogService. Connections
// must be dialed with DialOption.
type CatalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) *CatalogServiceClient {
	return &CatalogServiceClient{cc: cc}
}

func (c *CatalogServiceClient) ListPrograms(ctx context.Context, in *ListProgramsRequest, opts ...grpc.CallOption) (*ListProgramsResponse, error) {
	out := new(ListProgramsResponse)
	if err := c.cc.Invoke(ctx, "/"+CatalogServiceName+"/ListPrograms", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogServiceClient) GetProgram(ctx context.Context, in *GetProgramRequest, opts ...grpc.CallOption) (*GetProgramResponse, error) {
	out := new(GetProgramResponse)
	if err := c.cc.Invoke(ctx, "/"+CatalogServiceName+"/GetProgram", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

type LogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLogServiceClient(cc grpc.ClientConnInterface) *LogServiceClient {
	return &LogServiceClient{cc: cc}
}

func (c *LogServiceClient) QueryLogs(ctx context.Context, in *QueryLogsRequest, opts ...grpc.CallOption) (*QueryLogsResponse, error) {
	out := new(QueryLogsResponse)
	if err := c.cc.Invoke(ctx, "/"+LogServiceName+"/QueryLogs", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LogServiceClient) LogStats(ctx context.Context, in *LogStatsRequest, opts ...grpc.CallOption) (*LogStatsResponse, error) {
	out := new(LogStatsResponse)
	if err := c.cc.Invoke(ctx, "/"+LogServiceName+"/LogStats", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LogServiceClient) ClearLogs(ctx context.Context, in *ClearLogsRequest, opts ...grpc.CallOption) (*ClearLogsResponse, error) {
	out := new(ClearLogsResponse)
	if err := c.cc.Invoke(ctx, "/"+LogServiceName+"/ClearLogs", in, out, callOpts(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// callOpts prepends the JSON content-subtype so a client works even on a
// connection dialed without DialOption.
func callOpts(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
