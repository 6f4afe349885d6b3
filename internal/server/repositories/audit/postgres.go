package audit

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.AuditEntry) error {
	query :=
		`INSERT INTO audit_log (job_id, seq, device_id, actor, action, before_state, after_state, detail, created_at)
		 SELECT $1, COALESCE(MAX(seq), 0) + 1, $2, $3, $4, $5, $6, $7, $8
		 FROM audit_log WHERE job_id = $1
		 RETURNING seq
		 `

	err := r.db.QueryRowContext(ctx, query, e.JobID, e.DeviceID, e.Actor, string(e.Action),
		e.BeforeState, e.AfterState, e.Detail, e.Timestamp).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForJob(ctx context.Context, jobID string) ([]models.AuditEntry, error) {
	query :=
		`SELECT seq, job_id, device_id, actor, action, before_state, after_state, detail, created_at
		 FROM audit_log
		 WHERE job_id = $1
		 ORDER BY seq
		 `

	rows, err := r.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var (
			e      models.AuditEntry
			action string
		)
		if err := rows.Scan(&e.Seq, &e.JobID, &e.DeviceID, &e.Actor, &action,
			&e.BeforeState, &e.AfterState, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Action = models.AuditAction(action)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
