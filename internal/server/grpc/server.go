// Package grpc exposes the sanitizer services over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/sanitizer/internal/api"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/auth"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/services"
)

// Gateway authenticates callers and manages accounts.
type Gateway interface {
	Authenticate(ctx context.Context, userName, secret string) (*services.Token, error)
	Authorize(ctx context.Context, token string, action auth.Action) (*auth.Claims, error)
	CreateUser(ctx context.Context, userName, secret string, role models.Role) (*models.User, error)
	DeactivateUser(ctx context.Context, userName string) (*models.User, error)
}

// Orchestrator runs and reports on jobs.
type Orchestrator interface {
	SubmitJob(ctx context.Context, req services.SubmitRequest) (*models.Job, error)
	CancelJob(ctx context.Context, jobID, requester string) error
	GetStatus(ctx context.Context, jobID string) (*services.JobStatus, error)
	ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	Audit(ctx context.Context, jobID string) ([]models.AuditEntry, error)
}

// DeviceCatalog lists and rescans devices.
type DeviceCatalog interface {
	Scan(ctx context.Context) ([]models.Device, error)
	List(ctx context.Context) ([]models.Device, error)
}

// Certificates looks up and issues certificates.
type Certificates interface {
	Get(ctx context.Context, jobID, deviceID string) (*services.CertificateView, error)
	Issue(ctx context.Context, jobID, deviceID, issuedBy string) (*services.CertificateView, error)
}

type GRPCServer struct {
	api.UnimplementedSanitizerServer
	address      string
	gateway      Gateway
	orchestrator Orchestrator
	devices      DeviceCatalog
	certificates Certificates
	health       *health.Server
	logger       logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, g Gateway, o Orchestrator, d DeviceCatalog, c Certificates) *GRPCServer {
	return &GRPCServer{
		address:      a,
		logger:       l.With("module", "grpc_server"),
		gateway:      g,
		orchestrator: o,
		devices:      d,
		certificates: c,
		health:       health.NewServer(),
	}
}

// Health is the standard gRPC health service served next to the API.
func (s *GRPCServer) Health() *health.Server {
	return s.health
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterSanitizerServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve runs the server on an existing listener until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
