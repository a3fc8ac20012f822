package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/innovatepam/ideatracker/internal/logging"
	"github.com/innovatepam/ideatracker/internal/server/auth"
	"github.com/innovatepam/ideatracker/internal/server/models"
)

func startIdentityServer(t *testing.T) (*grpc.ClientConn, *auth.TokenManager) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	tm := auth.NewTokenManager(testSecret, time.Hour)
	srv := NewGRPCServer("bufnet", logging.Nop{}, tm, RegisterIdentityService)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		cancel()
		t.Fatalf("NewClient error: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return conn, tm
}

func TestWhoAmI_WithToken(t *testing.T) {
	conn, tm := startIdentityServer(t)

	token, err := tm.Issue(&models.Identity{
		ID:    "user-123",
		Email: "test@example.com",
		Role:  models.Role{Name: "evaluator/admin"},
	})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	out := &structpb.Struct{}
	if err := conn.Invoke(ctx, WhoAmIMethod, &emptypb.Empty{}, out); err != nil {
		t.Fatalf("WhoAmI error: %v", err)
	}

	fields := out.GetFields()
	if fields["user_id"].GetStringValue() != "user-123" ||
		fields["email"].GetStringValue() != "test@example.com" ||
		fields["authority"].GetStringValue() != "EVALUATOR_ADMIN" {
		t.Fatalf("unexpected identity: %v", out)
	}
}

func TestWhoAmI_RequiresToken(t *testing.T) {
	conn, _ := startIdentityServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := conn.Invoke(ctx, WhoAmIMethod, &emptypb.Empty{}, &structpb.Struct{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer forged")
	err = conn.Invoke(ctx, WhoAmIMethod, &emptypb.Empty{}, &structpb.Struct{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated for bad token, got %v", err)
	}
}

func TestWhoAmI_WithoutPrincipal(t *testing.T) {
	_, err := identityService{}.WhoAmI(context.Background(), &emptypb.Empty{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}
