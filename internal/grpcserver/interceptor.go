package grpcserver

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"unihub/internal/auth"
	"unihub/pkg/grpc/catalogrpc"
)

// AdminMethods lists the full method names that need an admin token.
var AdminMethods = map[string]bool{
	"/" + catalogrpc.LogServiceName + "/ClearLogs": true,
}

// AdminInterceptor rejects calls to AdminMethods unless the
// "authorization" metadata carries a bearer token with the admin role.
func AdminInterceptor(tokens auth.TokenService) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !AdminMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		var header string
		if values := md.Get("authorization"); len(values) > 0 {
			header = values[0]
		}
		raw, ok := auth.BearerToken(header)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		if !claims.IsAdmin() {
			return nil, status.Error(codes.PermissionDenied, "forbidden")
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs every unary call with its status code.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	zap.L().Debug("[grpc]",
		zap.String("method", info.FullMethod),
		zap.String("code", status.Code(err).String()),
	)
	return resp, err
}
