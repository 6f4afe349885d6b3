package services

import (
	"context"

	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/certs"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// CertificateView is a verified certificate with its rendered report.
type CertificateView struct {
	Certificate *models.Certificate
	Report      string
	DownloadURL string
}

// CertificateService exposes the issuer to the transport layer.
type CertificateService struct {
	issuer *certs.Issuer
	logger logging.Logger
}

func NewCertificateService(issuer *certs.Issuer, logger logging.Logger) *CertificateService {
	return &CertificateService{issuer: issuer, logger: logger.With("module", "certificates")}
}

// Get returns the stored certificate after checking its hash and signature.
func (s *CertificateService) Get(ctx context.Context, jobID, deviceID string) (*CertificateView, error) {
	cert, err := s.issuer.Get(ctx, jobID, deviceID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cert), nil
}

// Issue creates the certificate if the task is eligible, or returns the one
// already stored.
func (s *CertificateService) Issue(ctx context.Context, jobID, deviceID, issuedBy string) (*CertificateView, error) {
	cert, err := s.issuer.Issue(ctx, jobID, deviceID, issuedBy)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cert), nil
}

func (s *CertificateService) view(ctx context.Context, cert *models.Certificate) *CertificateView {
	v := &CertificateView{Certificate: cert, Report: certs.RenderReport(cert)}
	url, err := s.issuer.DownloadURL(ctx, cert)
	if err != nil {
		s.logger.Warn(ctx, "presign failed", "certificate_id", cert.ID, "error", err)
	}
	v.DownloadURL = url
	return v
}
