package client

import (
	"context"

	"github.com/dmitrijs2005/sanitizer/internal/api"
)

type Client interface {
	Close() error
	Login(ctx context.Context, userName, secret string) (*api.AuthenticateResponse, error)
	Logout()
	Ping(ctx context.Context) error
	ListDevices(ctx context.Context, rescan bool) ([]api.Device, error)
	SubmitJob(ctx context.Context, req *api.SubmitJobRequest) (*api.SubmitJobResponse, error)
	GetStatus(ctx context.Context, jobID string) (*api.Job, error)
	ListJobs(ctx context.Context, req *api.ListJobsRequest) ([]api.Job, error)
	CancelJob(ctx context.Context, jobID string) error
	GetCertificate(ctx context.Context, jobID, deviceID string, issue bool) (*api.CertificateResponse, error)
	ListAudit(ctx context.Context, jobID string) (*api.AuditResponse, error)
	CreateUser(ctx context.Context, userName, secret, role string) (*api.User, error)
	DeactivateUser(ctx context.Context, userName string) (*api.User, error)
}
