package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/sanitizer/internal/api"
	"github.com/dmitrijs2005/sanitizer/internal/server/ledger"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/services"
)

func (s *GRPCServer) Authenticate(ctx context.Context, req *api.AuthenticateRequest) (*api.AuthenticateResponse, error) {
	token, err := s.gateway.Authenticate(ctx, req.Username, req.Secret)
	if err != nil {
		s.logger.Warn(ctx, "authentication failed", "user", req.Username)
		return nil, s.toStatus(ctx, err)
	}
	return &api.AuthenticateResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		Role:        string(token.Role),
	}, nil
}

func (s *GRPCServer) ListDevices(ctx context.Context, _ *emptypb.Empty) (*api.DevicesResponse, error) {
	list, err := s.devices.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return devicesResponse(list), nil
}

func (s *GRPCServer) ScanDevices(ctx context.Context, _ *emptypb.Empty) (*api.DevicesResponse, error) {
	list, err := s.devices.Scan(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return devicesResponse(list), nil
}

func (s *GRPCServer) SubmitJob(ctx context.Context, req *api.SubmitJobRequest) (*api.SubmitJobResponse, error) {
	job, err := s.orchestrator.SubmitJob(ctx, services.SubmitRequest{
		DeviceIDs:   req.DeviceIDs,
		Method:      req.Method,
		Passes:      req.Passes,
		Verify:      req.Verify,
		RequestedBy: callerName(ctx),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.SubmitJobResponse{JobID: job.ID, State: string(job.State)}, nil
}

func (s *GRPCServer) GetStatus(ctx context.Context, req *api.JobRequest) (*api.Job, error) {
	st, err := s.orchestrator.GetStatus(ctx, req.JobID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := jobToAPI(st.Job)
	for _, t := range st.Tasks {
		out.Tasks = append(out.Tasks, taskToAPI(t))
	}
	return &out, nil
}

func (s *GRPCServer) ListJobs(ctx context.Context, req *api.ListJobsRequest) (*api.ListJobsResponse, error) {
	jobs, err := s.orchestrator.ListJobs(ctx, models.JobFilter{
		State:       models.JobState(req.State),
		RequestedBy: req.RequestedBy,
		Limit:       req.Limit,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &api.ListJobsResponse{Jobs: make([]api.Job, 0, len(jobs))}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, jobToAPI(j))
	}
	return resp, nil
}

func (s *GRPCServer) CancelJob(ctx context.Context, req *api.JobRequest) (*emptypb.Empty, error) {
	if err := s.orchestrator.CancelJob(ctx, req.JobID, callerName(ctx)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetCertificate(ctx context.Context, req *api.CertificateRequest) (*api.CertificateResponse, error) {
	v, err := s.certificates.Get(ctx, req.JobID, req.DeviceID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.certificateResponse(ctx, v)
}

func (s *GRPCServer) IssueCertificate(ctx context.Context, req *api.CertificateRequest) (*api.CertificateResponse, error) {
	v, err := s.certificates.Issue(ctx, req.JobID, req.DeviceID, callerName(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.certificateResponse(ctx, v)
}

func (s *GRPCServer) certificateResponse(ctx context.Context, v *services.CertificateView) (*api.CertificateResponse, error) {
	raw, err := json.Marshal(v.Certificate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.CertificateResponse{Certificate: raw, Report: v.Report, DownloadURL: v.DownloadURL}, nil
}

func (s *GRPCServer) ListAudit(ctx context.Context, req *api.JobRequest) (*api.AuditResponse, error) {
	entries, err := s.orchestrator.Audit(ctx, req.JobID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &api.AuditResponse{
		Entries:    make([]api.AuditEntry, 0, len(entries)),
		LedgerHash: ledger.Hash(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, api.AuditEntry{
			Seq:         e.Seq,
			DeviceID:    e.DeviceID,
			Actor:       e.Actor,
			Action:      string(e.Action),
			BeforeState: e.BeforeState,
			AfterState:  e.AfterState,
			Detail:      e.Detail,
			Timestamp:   e.Timestamp,
		})
	}
	return resp, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.User, error) {
	u, err := s.gateway.CreateUser(ctx, req.Username, req.Secret, models.Role(req.Role))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "user created", "user", u.UserName, "role", u.Role, "by", callerName(ctx))
	return userToAPI(u), nil
}

func (s *GRPCServer) DeactivateUser(ctx context.Context, req *api.DeactivateUserRequest) (*api.User, error) {
	u, err := s.gateway.DeactivateUser(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "user deactivated", "user", u.UserName, "by", callerName(ctx))
	return userToAPI(u), nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func devicesResponse(list []models.Device) *api.DevicesResponse {
	resp := &api.DevicesResponse{Devices: make([]api.Device, 0, len(list))}
	for _, d := range list {
		resp.Devices = append(resp.Devices, api.Device{
			ID:                  d.ID,
			Serial:              d.Serial,
			Model:               d.Model,
			Path:                d.Path,
			Capacity:            d.Capacity,
			SectorSize:          d.SectorSize,
			Connected:           d.Connected,
			SupportsSecureErase: d.SupportsSecureErase,
			SupportsCryptoErase: d.SupportsCryptoErase,
		})
	}
	return resp
}

func jobToAPI(j models.Job) api.Job {
	return api.Job{
		ID:          j.ID,
		DeviceIDs:   j.DeviceIDs,
		Method:      j.Method,
		Passes:      j.Passes,
		Verify:      j.Verify,
		RequestedBy: j.RequestedBy,
		State:       string(j.State),
		Progress:    j.Progress,
		ErrorKind:   string(j.ErrorKind),
		ErrorDetail: j.ErrorDetail,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		EndedAt:     j.EndedAt,
	}
}

func taskToAPI(t models.Task) api.Task {
	return api.Task{
		DeviceID:     t.DeviceID,
		State:        string(t.State),
		Progress:     t.Progress,
		BytesWritten: t.BytesWritten,
		Verified:     t.Verified,
		VerifyNote:   t.VerifyNote,
		ErrorKind:    string(t.ErrorKind),
		ErrorDetail:  t.ErrorDetail,
		StartedAt:    t.StartedAt,
		EndedAt:      t.EndedAt,
	}
}

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Username:  u.UserName,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
