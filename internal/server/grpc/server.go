// Package grpc runs the gRPC endpoint: the standard health service and the
// identity service, behind a unary interceptor that authenticates bearer
// tokens for every method outside health.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
)

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	verifier TokenVerifier
	health   *health.Server
	register []func(grpc.ServiceRegistrar)
}

// NewGRPCServer builds a server. register callbacks attach additional
// services; they run behind the token interceptor.
func NewGRPCServer(a string, l logging.Logger, v TokenVerifier, register ...func(grpc.ServiceRegistrar)) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		verifier: v,
		health:   health.NewServer(),
		register: register,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.authInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)
	for _, r := range s.register {
		r(srv)
	}
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
