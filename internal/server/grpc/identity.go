package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/innovatepam/ideatracker/internal/server/auth"
)

const (
	IdentityServiceName = "ideatracker.auth.v1.Identity"
	WhoAmIMethod        = "/" + IdentityServiceName + "/WhoAmI"
)

// IdentityServer answers questions about the caller of an authenticated RPC.
type IdentityServer interface {
	WhoAmI(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// The message types are the protobuf well-known types, so the descriptor is
// written by hand instead of generated.
var identityServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "WhoAmI", Handler: whoAmIHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ideatracker/auth/v1/identity.proto",
}

func whoAmIHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServer).WhoAmI(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: WhoAmIMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServer).WhoAmI(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type identityService struct{}

// WhoAmI returns the principal the token interceptor attached to ctx.
func (identityService) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing principal")
	}
	out, err := structpb.NewStruct(map[string]any{
		"user_id":   p.UserID,
		"email":     p.Email,
		"role":      p.Role,
		"authority": p.Authority(),
		"issued_at": p.IssuedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// RegisterIdentityService attaches the identity service to s. Pass it to
// NewGRPCServer so its methods run behind the token interceptor.
func RegisterIdentityService(s grpc.ServiceRegistrar) {
	s.RegisterService(&identityServiceDesc, identityService{})
}
