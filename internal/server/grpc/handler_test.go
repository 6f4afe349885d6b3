package grpc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/sanitizer/internal/api"
	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/auth"
	"github.com/dmitrijs2005/sanitizer/internal/server/ledger"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/services"
)

type handlerFixture struct {
	srv   *GRPCServer
	gw    *fakeGateway
	orch  *fakeOrchestrator
	devs  *fakeDevices
	certs *fakeCertificates
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		gw:    &fakeGateway{users: map[string]*models.User{}},
		orch:  &fakeOrchestrator{},
		devs:  &fakeDevices{},
		certs: &fakeCertificates{},
	}
	f.srv = NewGRPCServer("", logging.Nop(), f.gw, f.orch, f.devs, f.certs)
	return f
}

// asCaller mimics what the token interceptor leaves in the context.
func asCaller(name string) context.Context {
	return context.WithValue(context.Background(), claimsKey, &auth.Claims{UserName: name})
}

func TestAuthenticate(t *testing.T) {
	f := newHandlerFixture()

	resp, err := f.srv.Authenticate(context.Background(), &api.AuthenticateRequest{Username: "alice", Secret: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, "operator", resp.Role)

	_, err = f.srv.Authenticate(context.Background(), &api.AuthenticateRequest{Username: "alice", Secret: "bad"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSubmitJob_UsesCallerAsRequester(t *testing.T) {
	f := newHandlerFixture()

	resp, err := f.srv.SubmitJob(asCaller("bob"), &api.SubmitJobRequest{
		DeviceIDs: []string{"d1", "d2"}, Method: "dod-3", Passes: 3, Verify: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, "running", resp.State)

	want := services.SubmitRequest{DeviceIDs: []string{"d1", "d2"}, Method: "dod-3", Passes: 3, Verify: true, RequestedBy: "bob"}
	if diff := cmp.Diff(want, f.orch.submitted); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitJob_MapsBusy(t *testing.T) {
	f := newHandlerFixture()
	f.orch.submitErr = common.ErrDeviceBusy

	_, err := f.srv.SubmitJob(asCaller("bob"), &api.SubmitJobRequest{DeviceIDs: []string{"d1"}, Method: "zero-fill"})
	assert.Equal(t, codes.Aborted, status.Code(err))
}

func TestGetStatus(t *testing.T) {
	f := newHandlerFixture()
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.orch.status = &services.JobStatus{
		Job: models.Job{ID: "job-1", DeviceIDs: []string{"d1"}, Method: "nist-clear", Passes: 1,
			State: models.JobRunning, Progress: 0.5, StartedAt: &started},
		Tasks: []models.Task{{JobID: "job-1", DeviceID: "d1", State: models.TaskRunning, Progress: 0.5, BytesWritten: 42}},
	}

	got, err := f.srv.GetStatus(context.Background(), &api.JobRequest{JobID: "job-1"})
	require.NoError(t, err)

	want := &api.Job{
		ID: "job-1", DeviceIDs: []string{"d1"}, Method: "nist-clear", Passes: 1,
		State: "running", Progress: 0.5, StartedAt: &started,
		Tasks: []api.Task{{DeviceID: "d1", State: "running", Progress: 0.5, BytesWritten: 42}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}

	_, err = f.srv.GetStatus(context.Background(), &api.JobRequest{JobID: "nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestListJobs_PassesFilter(t *testing.T) {
	f := newHandlerFixture()
	f.orch.jobs = []models.Job{{ID: "a", State: models.JobCompleted}, {ID: "b", State: models.JobCompleted}}

	resp, err := f.srv.ListJobs(context.Background(), &api.ListJobsRequest{State: "completed", RequestedBy: "bob", Limit: 5})
	require.NoError(t, err)
	assert.Len(t, resp.Jobs, 2)
	assert.Equal(t, models.JobFilter{State: models.JobCompleted, RequestedBy: "bob", Limit: 5}, f.orch.filter)
}

func TestCancelJob(t *testing.T) {
	f := newHandlerFixture()

	_, err := f.srv.CancelJob(asCaller("boss"), &api.JobRequest{JobID: "job-9"})
	require.NoError(t, err)
	assert.Equal(t, "job-9", f.orch.cancelled)
	assert.Equal(t, "boss", f.orch.canceller)

	f.orch.cancelErr = common.ErrJobFinished
	_, err = f.srv.CancelJob(asCaller("boss"), &api.JobRequest{JobID: "job-9"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestCertificates(t *testing.T) {
	f := newHandlerFixture()
	cert := &models.Certificate{ID: "abc", Body: models.CertificateBody{JobID: "job-1", DeviceID: "d1"}, Signature: []byte{1, 2}}
	f.certs.view = &services.CertificateView{Certificate: cert, Report: "REPORT", DownloadURL: "http://x/y"}

	resp, err := f.srv.IssueCertificate(asCaller("carol"), &api.CertificateRequest{JobID: "job-1", DeviceID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, "carol", f.certs.issuedBy)
	assert.Equal(t, "REPORT", resp.Report)
	assert.Equal(t, "http://x/y", resp.DownloadURL)

	var decoded models.Certificate
	require.NoError(t, json.Unmarshal(resp.Certificate, &decoded))
	assert.Equal(t, *cert, decoded)

	f.certs.err = common.ErrCertificateTampered
	_, err = f.srv.GetCertificate(context.Background(), &api.CertificateRequest{JobID: "job-1", DeviceID: "d1"})
	assert.Equal(t, codes.DataLoss, status.Code(err))
}

func TestListAudit_IncludesLedgerHash(t *testing.T) {
	f := newHandlerFixture()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.orch.audit = []models.AuditEntry{
		{Seq: 1, JobID: "job-1", Actor: "bob", Action: models.ActionJobSubmitted, AfterState: "queued", Timestamp: ts},
		{Seq: 2, JobID: "job-1", Actor: "bob", Action: models.ActionJobStarted, BeforeState: "queued", AfterState: "running", Timestamp: ts},
	}

	resp, err := f.srv.ListAudit(context.Background(), &api.JobRequest{JobID: "job-1"})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "job.started", resp.Entries[1].Action)
	assert.Equal(t, ledger.Hash(f.orch.audit), resp.LedgerHash)

	f.orch.auditErr = common.ErrJobNotFound
	_, err = f.srv.ListAudit(context.Background(), &api.JobRequest{JobID: "job-1"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestUsers(t *testing.T) {
	f := newHandlerFixture()

	u, err := f.srv.CreateUser(asCaller("admin"), &api.CreateUserRequest{Username: "dave", Secret: "s", Role: "viewer"})
	require.NoError(t, err)
	assert.Equal(t, "viewer", u.Role)
	assert.True(t, u.Active)

	_, err = f.srv.CreateUser(asCaller("admin"), &api.CreateUserRequest{Username: "dave", Secret: "s", Role: "viewer"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	u, err = f.srv.DeactivateUser(asCaller("admin"), &api.DeactivateUserRequest{Username: "dave"})
	require.NoError(t, err)
	assert.False(t, u.Active)

	_, err = f.srv.DeactivateUser(asCaller("admin"), &api.DeactivateUserRequest{Username: "ghost"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDevices(t *testing.T) {
	f := newHandlerFixture()
	f.devs.list = []models.Device{{ID: "d1", Serial: "S1", Model: "M", Capacity: 4096, SectorSize: 512, Connected: true}}

	resp, err := f.srv.ScanDevices(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.True(t, f.devs.scanned)
	assert.Equal(t, []api.Device{{ID: "d1", Serial: "S1", Model: "M", Capacity: 4096, SectorSize: 512, Connected: true}}, resp.Devices)

	resp, err = f.srv.ListDevices(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Len(t, resp.Devices, 1)
}
