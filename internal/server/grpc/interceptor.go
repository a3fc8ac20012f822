package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/innovatepam/ideatracker/internal/common"
	"github.com/innovatepam/ideatracker/internal/server/auth"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

func isPublicMethod(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, healthServicePrefix)
}

// tokenFromMetadata accepts "Bearer <token>" or a bare token.
func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	if token, ok := auth.BearerToken(values[0]); ok {
		return token
	}
	return strings.TrimSpace(values[0])
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if isPublicMethod(info.FullMethod) {
		return handler(ctx, req)
	}

	token := tokenFromMetadata(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := s.verifier.Verify(token)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "method", info.FullMethod)
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(auth.WithPrincipal(ctx, *p), req)
}
