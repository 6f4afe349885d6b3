package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/sanitizer/internal/api"
	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/auth"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:0", logging.Nop(), &fakeGateway{}, &fakeOrchestrator{}, &fakeDevices{}, &fakeCertificates{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:99999", logging.Nop(), &fakeGateway{}, &fakeOrchestrator{}, &fakeDevices{}, &fakeCertificates{})

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected error for invalid address")
	}
}

// startBufconn serves s in memory and returns a client for it.
func startBufconn(t *testing.T, s *GRPCServer) (api.SanitizerClient, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
	})
	return api.NewSanitizerClient(conn), conn
}

func TestEndToEnd_OverJSONCodec(t *testing.T) {
	gw := &fakeGateway{claims: &auth.Claims{UserName: "alice", Role: models.RoleOperator}, users: map[string]*models.User{}}
	orch := &fakeOrchestrator{}
	s := NewGRPCServer("", logging.Nop(), gw, orch, &fakeDevices{}, &fakeCertificates{})
	client, conn := startBufconn(t, s)
	ctx := context.Background()

	ping, err := client.Ping(ctx, &emptypb.Empty{})
	if err != nil || ping.Status != "OK" {
		t.Fatalf("ping: %v %+v", err, ping)
	}

	if _, err := client.SubmitJob(ctx, &api.SubmitJobRequest{DeviceIDs: []string{"d1"}, Method: "zero-fill"}); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("submit without token: got %v, want Unauthenticated", err)
	}

	tok, err := client.Authenticate(ctx, &api.AuthenticateRequest{Username: "alice", Secret: "pw"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	authed := metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, tok.AccessToken)
	resp, err := client.SubmitJob(authed, &api.SubmitJobRequest{DeviceIDs: []string{"d1"}, Method: "zero-fill", Verify: true})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.JobID != "job-1" || orch.submitted.RequestedBy != "alice" || !orch.submitted.Verify {
		t.Fatalf("unexpected submit: %+v / %+v", resp, orch.submitted)
	}

	if _, err := client.CancelJob(authed, &api.JobRequest{JobID: "job-1"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if orch.canceller != "alice" {
		t.Fatalf("canceller = %q", orch.canceller)
	}

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if hc.Status != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("health status = %v", hc.Status)
	}
}
