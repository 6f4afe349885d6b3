package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/sanitizer/internal/api"
	"github.com/dmitrijs2005/sanitizer/internal/common"
)

/*************
 * Fake api client
 *************/

type fakeAPI struct {
	api.SanitizerClient

	calls []string

	lastAuth   *api.AuthenticateRequest
	lastSubmit *api.SubmitJobRequest
	lastJob    *api.JobRequest
	lastCert   *api.CertificateRequest
	lastUser   *api.CreateUserRequest

	authResp *api.AuthenticateResponse
	pingResp *api.PingResponse
	devices  *api.DevicesResponse
	job      *api.Job
	cert     *api.CertificateResponse
	audit    *api.AuditResponse

	err error
}

func (f *fakeAPI) Authenticate(ctx context.Context, in *api.AuthenticateRequest, opts ...grpc.CallOption) (*api.AuthenticateResponse, error) {
	f.lastAuth = in
	return f.authResp, f.err
}
func (f *fakeAPI) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*api.PingResponse, error) {
	return f.pingResp, f.err
}
func (f *fakeAPI) ListDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*api.DevicesResponse, error) {
	f.calls = append(f.calls, "list")
	return f.devices, f.err
}
func (f *fakeAPI) ScanDevices(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*api.DevicesResponse, error) {
	f.calls = append(f.calls, "scan")
	return f.devices, f.err
}
func (f *fakeAPI) SubmitJob(ctx context.Context, in *api.SubmitJobRequest, opts ...grpc.CallOption) (*api.SubmitJobResponse, error) {
	f.lastSubmit = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.SubmitJobResponse{JobID: "j1", State: "running"}, nil
}
func (f *fakeAPI) GetStatus(ctx context.Context, in *api.JobRequest, opts ...grpc.CallOption) (*api.Job, error) {
	f.lastJob = in
	return f.job, f.err
}
func (f *fakeAPI) CancelJob(ctx context.Context, in *api.JobRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	f.lastJob = in
	return &emptypb.Empty{}, f.err
}
func (f *fakeAPI) GetCertificate(ctx context.Context, in *api.CertificateRequest, opts ...grpc.CallOption) (*api.CertificateResponse, error) {
	f.calls = append(f.calls, "get")
	f.lastCert = in
	return f.cert, f.err
}
func (f *fakeAPI) IssueCertificate(ctx context.Context, in *api.CertificateRequest, opts ...grpc.CallOption) (*api.CertificateResponse, error) {
	f.calls = append(f.calls, "issue")
	f.lastCert = in
	return f.cert, f.err
}
func (f *fakeAPI) ListAudit(ctx context.Context, in *api.JobRequest, opts ...grpc.CallOption) (*api.AuditResponse, error) {
	f.lastJob = in
	return f.audit, f.err
}
func (f *fakeAPI) CreateUser(ctx context.Context, in *api.CreateUserRequest, opts ...grpc.CallOption) (*api.User, error) {
	f.lastUser = in
	if f.err != nil {
		return nil, f.err
	}
	return &api.User{Username: in.Username, Role: in.Role, Active: true}, nil
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_AttachesToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Equal(t, []string{"A1"}, toks)
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_NoTokenBeforeLogin(t *testing.T) {
	c := &GRPCClient{}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_ExpiredTokenEndsSession(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Empty(t, c.accessToken)
	require.ErrorIs(t, c.mapError(err), ErrSessionExpired)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCClient{accessToken: "X"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "some other reason")
	}
	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
	require.Equal(t, "X", c.accessToken)
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.ErrorIs(t, c.mapError(status.Error(codes.Unauthenticated, "x")), ErrUnauthorized)
	require.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "x")), ErrUnauthorized)
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.ErrorIs(t, c.mapError(status.Error(codes.NotFound, "job not found")), ErrNotFound)
	require.ErrorContains(t, c.mapError(status.Error(codes.Aborted, "device busy")), "device busy")
	e := errors.New("plain")
	require.ErrorContains(t, c.mapError(e), "rpc error:")
	require.NoError(t, c.mapError(nil))
}

/*************
 * call tests
 *************/

func TestPing(t *testing.T) {
	require.NoError(t, (&GRPCClient{client: &fakeAPI{pingResp: &api.PingResponse{Status: "OK"}}}).Ping(context.Background()))
	require.ErrorIs(t, (&GRPCClient{client: &fakeAPI{pingResp: &api.PingResponse{Status: "NOT_OK"}}}).Ping(context.Background()), ErrUnavailable)
	require.ErrorIs(t, (&GRPCClient{client: &fakeAPI{err: status.Error(codes.Unavailable, "down")}}).Ping(context.Background()), ErrUnavailable)
}

func TestLogin_StoresTokenAndLogoutClears(t *testing.T) {
	f := &fakeAPI{authResp: &api.AuthenticateResponse{AccessToken: "T", Role: "operator"}}
	c := &GRPCClient{client: f}

	resp, err := c.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, "operator", resp.Role)
	require.Equal(t, "T", c.accessToken)
	require.Equal(t, &api.AuthenticateRequest{Username: "alice", Secret: "pw"}, f.lastAuth)

	c.Logout()
	require.Empty(t, c.accessToken)
}

func TestLogin_Failure(t *testing.T) {
	f := &fakeAPI{err: status.Error(codes.Unauthenticated, "invalid credentials")}
	c := &GRPCClient{client: f}

	_, err := c.Login(context.Background(), "alice", "bad")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, c.accessToken)
}

func TestListDevices_RescanSelectsScan(t *testing.T) {
	f := &fakeAPI{devices: &api.DevicesResponse{Devices: []api.Device{{ID: "d1"}}}}
	c := &GRPCClient{client: f}

	list, err := c.ListDevices(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = c.ListDevices(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, []string{"list", "scan"}, f.calls)
}

func TestJobCalls(t *testing.T) {
	f := &fakeAPI{job: &api.Job{ID: "j1", State: "completed"}, audit: &api.AuditResponse{LedgerHash: "h"}}
	c := &GRPCClient{client: f}
	ctx := context.Background()

	resp, err := c.SubmitJob(ctx, &api.SubmitJobRequest{DeviceIDs: []string{"d1"}, Method: "zero-fill"})
	require.NoError(t, err)
	require.Equal(t, "j1", resp.JobID)
	require.Equal(t, "zero-fill", f.lastSubmit.Method)

	job, err := c.GetStatus(ctx, "j1")
	require.NoError(t, err)
	require.Equal(t, "completed", job.State)

	require.NoError(t, c.CancelJob(ctx, "j2"))
	require.Equal(t, "j2", f.lastJob.JobID)

	a, err := c.ListAudit(ctx, "j1")
	require.NoError(t, err)
	require.Equal(t, "h", a.LedgerHash)
}

func TestSubmitJob_Busy(t *testing.T) {
	f := &fakeAPI{err: status.Error(codes.Aborted, "device busy")}
	c := &GRPCClient{client: f}

	_, err := c.SubmitJob(context.Background(), &api.SubmitJobRequest{})
	require.ErrorContains(t, err, "device busy")
}

func TestGetCertificate_IssueSelectsIssue(t *testing.T) {
	f := &fakeAPI{cert: &api.CertificateResponse{Report: "R"}}
	c := &GRPCClient{client: f}

	_, err := c.GetCertificate(context.Background(), "j1", "d1", false)
	require.NoError(t, err)
	resp, err := c.GetCertificate(context.Background(), "j1", "d1", true)
	require.NoError(t, err)
	require.Equal(t, "R", resp.Report)
	require.Equal(t, []string{"get", "issue"}, f.calls)
	require.Equal(t, &api.CertificateRequest{JobID: "j1", DeviceID: "d1"}, f.lastCert)
}

func TestCreateUser(t *testing.T) {
	f := &fakeAPI{}
	c := &GRPCClient{client: f}

	u, err := c.CreateUser(context.Background(), "dave", "s", "viewer")
	require.NoError(t, err)
	require.Equal(t, "viewer", u.Role)
	require.Equal(t, "s", f.lastUser.Secret)
}
