package certificates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, cert *models.Certificate, canonical []byte) error {
	query :=
		`INSERT INTO certificates (id, job_id, device_id, body, signature, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `
	_, err := r.db.ExecContext(ctx, query, cert.ID, cert.Body.JobID, cert.Body.DeviceID,
		canonical, cert.Signature, cert.Body.IssuedAt)
	if err != nil {
		if repositories.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func decode(id string, raw, sig []byte) (*models.Certificate, error) {
	cert := &models.Certificate{ID: id, Signature: sig}
	if err := json.Unmarshal(raw, &cert.Body); err != nil {
		return nil, fmt.Errorf("decode certificate %s: %w", id, err)
	}
	return cert, nil
}

func (r *PostgresRepository) Get(ctx context.Context, jobID, deviceID string) (*models.Certificate, []byte, error) {
	query :=
		`SELECT id, body, signature FROM certificates
		 WHERE job_id = $1 AND device_id = $2
		 `
	var (
		id       string
		raw, sig []byte
	)
	err := r.db.QueryRowContext(ctx, query, jobID, deviceID).Scan(&id, &raw, &sig)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("db error: %w", err)
	}
	cert, err := decode(id, raw, sig)
	if err != nil {
		return nil, nil, err
	}
	return cert, raw, nil
}

func (r *PostgresRepository) ListForJob(ctx context.Context, jobID string) ([]models.Certificate, error) {
	query :=
		`SELECT id, body, signature FROM certificates
		 WHERE job_id = $1
		 ORDER BY device_id
		 `
	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Certificate
	for rows.Next() {
		var (
			id       string
			raw, sig []byte
		)
		if err := rows.Scan(&id, &raw, &sig); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		cert, err := decode(id, raw, sig)
		if err != nil {
			return nil, err
		}
		out = append(out, *cert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
