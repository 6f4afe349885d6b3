// Package certs issues and checks signed proof-of-erasure certificates.
package certs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/ledger"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sanitizer/internal/server/sanitize"
)

// Archiver keeps an off-site copy of certificates.
type Archiver interface {
	Store(ctx context.Context, cert *models.Certificate, report string) error
	DownloadURL(ctx context.Context, cert *models.Certificate) (string, error)
}

type Issuer struct {
	db       dbx.Transactor
	repos    repomanager.RepositoryManager
	ledger   *ledger.Ledger
	signer   Signer
	archiver Archiver
	logger   logging.Logger
	now      func() time.Time
}

// NewIssuer builds an Issuer. archiver may be nil.
func NewIssuer(db dbx.Transactor, repos repomanager.RepositoryManager, l *ledger.Ledger,
	signer Signer, archiver Archiver, logger logging.Logger) *Issuer {
	return &Issuer{
		db:       db,
		repos:    repos,
		ledger:   l,
		signer:   signer,
		archiver: archiver,
		logger:   logger.With("module", "certs"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Canonical is the byte form that a certificate id hashes and that is
// stored.
func Canonical(body models.CertificateBody) ([]byte, error) {
	return json.Marshal(body)
}

func contentID(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// Issue creates the certificate for one device of a job. Issuing twice
// returns the stored certificate.
func (i *Issuer) Issue(ctx context.Context, jobID, deviceID, issuedBy string) (*models.Certificate, error) {
	conn := i.db.Conn()

	if cert, err := i.stored(ctx, jobID, deviceID); err == nil {
		return cert, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	job, task, err := i.eligible(ctx, jobID, deviceID)
	if err != nil {
		return nil, err
	}

	device, err := i.repos.Devices(conn).Get(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("load device %s: %w", deviceID, err)
	}
	passes, err := i.repos.Jobs(conn).PassRecords(ctx, jobID, deviceID)
	if err != nil {
		return nil, err
	}
	entries, err := i.ledger.ReadForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	body, err := i.buildBody(job, task, device, passes, entries, issuedBy)
	if err != nil {
		return nil, err
	}
	canonical, err := Canonical(body)
	if err != nil {
		return nil, err
	}
	cert := &models.Certificate{ID: contentID(canonical), Body: body}
	if cert.Signature, err = i.signer.Sign([]byte(cert.ID)); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSigningFailed, err)
	}

	if err := i.repos.Certificates(conn).Create(ctx, cert, canonical); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return i.stored(ctx, jobID, deviceID)
		}
		return nil, fmt.Errorf("%w: store certificate: %v", common.ErrPersistence, err)
	}
	i.logger.Info(ctx, "certificate issued", "job_id", jobID, "device_id", deviceID, "certificate_id", cert.ID)

	if i.archiver != nil {
		if err := i.archiver.Store(ctx, cert, RenderReport(cert)); err != nil {
			i.logger.Warn(ctx, "certificate archive failed", "certificate_id", cert.ID, "error", err)
		}
	}
	return cert, nil
}

// eligible loads the job and task and checks the task ended in a verified
// success.
func (i *Issuer) eligible(ctx context.Context, jobID, deviceID string) (*models.Job, *models.Task, error) {
	repo := i.repos.Jobs(i.db.Conn())
	job, err := repo.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrJobNotFound
		}
		return nil, nil, err
	}
	task, err := repo.GetTask(ctx, jobID, deviceID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("device %s not in job %s: %w", deviceID, jobID, common.ErrNotEligible)
		}
		return nil, nil, err
	}
	if task.State != models.TaskCompleted {
		return nil, nil, fmt.Errorf("task is %s: %w", task.State, common.ErrNotEligible)
	}
	if !task.Verified {
		return nil, nil, fmt.Errorf("task was not verified: %w", common.ErrNotEligible)
	}
	return job, task, nil
}

func (i *Issuer) buildBody(job *models.Job, task *models.Task, device *models.Device,
	passes []models.PassRecord, entries []models.AuditEntry, issuedBy string) (models.CertificateBody, error) {

	method, err := sanitize.ParseMethod(job.Method)
	if err != nil {
		return models.CertificateBody{}, err
	}

	var (
		completed int
		processed int64
	)
	for _, p := range passes {
		if p.SectorsFailed == 0 {
			completed++
		}
		processed += p.BytesWritten
	}

	body := models.CertificateBody{
		JobID:            job.ID,
		DeviceID:         device.ID,
		DeviceSerial:     device.Serial,
		DeviceModel:      device.Model,
		DeviceCapacity:   device.Capacity,
		SectorSize:       device.SectorSize,
		Method:           string(method),
		Compliance:       method.Compliance(),
		StandardsMet:     method.Standards(),
		PassesCompleted:  completed,
		BytesProcessed:   processed,
		Verified:         task.Verified,
		VerificationNote: task.VerifyNote,
		IssuedBy:         issuedBy,
		IssuedAt:         i.now(),
		LedgerHash:       ledger.Hash(entries),
		SignerKeyID:      i.signer.KeyID(),
	}
	if task.StartedAt != nil {
		body.StartedAt = task.StartedAt.UTC()
	}
	if task.EndedAt != nil {
		body.EndedAt = task.EndedAt.UTC()
	}
	if d := body.EndedAt.Sub(body.StartedAt); d > 0 {
		body.DurationSeconds = int64(d.Seconds())
		body.AverageMBps = float64(processed) / (1024 * 1024) / d.Seconds()
	}
	return body, nil
}

// Get loads a certificate and checks it has not been altered since it was
// issued. A missing certificate for a task that did not succeed is reported
// as ErrNotEligible.
func (i *Issuer) Get(ctx context.Context, jobID, deviceID string) (*models.Certificate, error) {
	cert, err := i.stored(ctx, jobID, deviceID)
	if err == nil || !errors.Is(err, common.ErrorNotFound) {
		return cert, err
	}
	if _, _, eligErr := i.eligible(ctx, jobID, deviceID); eligErr != nil {
		return nil, eligErr
	}
	return nil, err
}

func (i *Issuer) stored(ctx context.Context, jobID, deviceID string) (*models.Certificate, error) {
	cert, raw, err := i.repos.Certificates(i.db.Conn()).Get(ctx, jobID, deviceID)
	if err != nil {
		return nil, err
	}
	if err := i.Verify(cert, raw); err != nil {
		return nil, err
	}
	return cert, nil
}

// Verify recomputes the content hash and checks the signature.
func (i *Issuer) Verify(cert *models.Certificate, raw []byte) error {
	if contentID(raw) != cert.ID {
		return common.ErrCertificateTampered
	}
	canonical, err := Canonical(cert.Body)
	if err != nil || !bytes.Equal(canonical, raw) {
		return common.ErrCertificateTampered
	}
	if !i.signer.Verify([]byte(cert.ID), cert.Signature) {
		return common.ErrCertificateTampered
	}
	return nil
}

// ListForJob returns every certificate issued for a job.
func (i *Issuer) ListForJob(ctx context.Context, jobID string) ([]models.Certificate, error) {
	return i.repos.Certificates(i.db.Conn()).ListForJob(ctx, jobID)
}

// DownloadURL returns a presigned link to the archived copy, or "" when no
// archive is configured.
func (i *Issuer) DownloadURL(ctx context.Context, cert *models.Certificate) (string, error) {
	if i.archiver == nil {
		return "", nil
	}
	return i.archiver.DownloadURL(ctx, cert)
}
