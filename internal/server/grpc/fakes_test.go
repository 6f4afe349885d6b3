package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/auth"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/services"
)

type fakeGateway struct {
	claims  *auth.Claims
	authErr error
	users   map[string]*models.User
}

func (f *fakeGateway) Authenticate(_ context.Context, userName, secret string) (*services.Token, error) {
	if userName != "alice" || secret != "pw" {
		return nil, common.ErrInvalidCredentials
	}
	return &services.Token{AccessToken: "tok", ExpiresAt: time.Unix(100, 0), Role: models.RoleOperator}, nil
}

func (f *fakeGateway) Authorize(_ context.Context, token string, action auth.Action) (*auth.Claims, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	if token != "tok" {
		return nil, common.ErrInvalidToken
	}
	return f.claims, nil
}

func (f *fakeGateway) CreateUser(_ context.Context, userName, _ string, role models.Role) (*models.User, error) {
	if _, ok := f.users[userName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u := &models.User{ID: "u-" + userName, UserName: userName, Role: role, Active: true}
	f.users[userName] = u
	return u, nil
}

func (f *fakeGateway) DeactivateUser(_ context.Context, userName string) (*models.User, error) {
	u, ok := f.users[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Active = false
	return u, nil
}

type fakeOrchestrator struct {
	submitted services.SubmitRequest
	submitErr error
	cancelled string
	canceller string
	cancelErr error
	status    *services.JobStatus
	jobs      []models.Job
	filter    models.JobFilter
	audit     []models.AuditEntry
	auditErr  error
}

func (f *fakeOrchestrator) SubmitJob(_ context.Context, req services.SubmitRequest) (*models.Job, error) {
	f.submitted = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.Job{ID: "job-1", State: models.JobRunning}, nil
}

func (f *fakeOrchestrator) CancelJob(_ context.Context, jobID, requester string) error {
	f.cancelled, f.canceller = jobID, requester
	return f.cancelErr
}

func (f *fakeOrchestrator) GetStatus(_ context.Context, jobID string) (*services.JobStatus, error) {
	if f.status == nil || f.status.Job.ID != jobID {
		return nil, common.ErrJobNotFound
	}
	return f.status, nil
}

func (f *fakeOrchestrator) ListJobs(_ context.Context, filter models.JobFilter) ([]models.Job, error) {
	f.filter = filter
	return f.jobs, nil
}

func (f *fakeOrchestrator) Audit(_ context.Context, _ string) ([]models.AuditEntry, error) {
	return f.audit, f.auditErr
}

type fakeDevices struct {
	list    []models.Device
	scanned bool
}

func (f *fakeDevices) Scan(context.Context) ([]models.Device, error) {
	f.scanned = true
	return f.list, nil
}

func (f *fakeDevices) List(context.Context) ([]models.Device, error) {
	return f.list, nil
}

type fakeCertificates struct {
	view     *services.CertificateView
	issuedBy string
	err      error
}

func (f *fakeCertificates) Get(context.Context, string, string) (*services.CertificateView, error) {
	return f.view, f.err
}

func (f *fakeCertificates) Issue(_ context.Context, _, _, issuedBy string) (*services.CertificateView, error) {
	f.issuedBy = issuedBy
	return f.view, f.err
}
