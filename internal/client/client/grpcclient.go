package client

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/sanitizer/internal/api"
	"github.com/dmitrijs2005/sanitizer/internal/common"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.SanitizerClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error() {
		// tokens are short-lived and there is no refresh flow
		s.accessToken = ""
		return ErrSessionExpired
	}
	return err
}

func NewSanitizerClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewSanitizerClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Login(ctx context.Context, userName, secret string) (*api.AuthenticateResponse, error) {

	resp, err := s.client.Authenticate(ctx, &api.AuthenticateRequest{Username: userName, Secret: secret})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.accessToken = resp.AccessToken
	return resp, nil
}

func (s *GRPCClient) Logout() {
	s.accessToken = ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) ListDevices(ctx context.Context, rescan bool) ([]api.Device, error) {
	call := s.client.ListDevices
	if rescan {
		call = s.client.ScanDevices
	}
	resp, err := call(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Devices, nil
}

func (s *GRPCClient) SubmitJob(ctx context.Context, req *api.SubmitJobRequest) (*api.SubmitJobResponse, error) {
	resp, err := s.client.SubmitJob(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) GetStatus(ctx context.Context, jobID string) (*api.Job, error) {
	resp, err := s.client.GetStatus(ctx, &api.JobRequest{JobID: jobID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListJobs(ctx context.Context, req *api.ListJobsRequest) ([]api.Job, error) {
	resp, err := s.client.ListJobs(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Jobs, nil
}

func (s *GRPCClient) CancelJob(ctx context.Context, jobID string) error {
	if _, err := s.client.CancelJob(ctx, &api.JobRequest{JobID: jobID}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// GetCertificate fetches a stored certificate, or asks the server to issue
// it first when issue is set.
func (s *GRPCClient) GetCertificate(ctx context.Context, jobID, deviceID string, issue bool) (*api.CertificateResponse, error) {
	req := &api.CertificateRequest{JobID: jobID, DeviceID: deviceID}
	call := s.client.GetCertificate
	if issue {
		call = s.client.IssueCertificate
	}
	resp, err := call(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListAudit(ctx context.Context, jobID string) (*api.AuditResponse, error) {
	resp, err := s.client.ListAudit(ctx, &api.JobRequest{JobID: jobID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) CreateUser(ctx context.Context, userName, secret, role string) (*api.User, error) {
	resp, err := s.client.CreateUser(ctx, &api.CreateUserRequest{Username: userName, Secret: secret, Role: role})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DeactivateUser(ctx context.Context, userName string) (*api.User, error) {
	resp, err := s.client.DeactivateUser(ctx, &api.DeactivateUserRequest{Username: userName})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionExpired) {
		return err
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
