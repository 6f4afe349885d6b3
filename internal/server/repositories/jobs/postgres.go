package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (r *PostgresRepository) Create(ctx context.Context, job *models.Job, tasks []models.Task) error {
	query :=
		`INSERT INTO jobs (id, method, passes, verify, requested_by, state, progress,
		                   error_kind, error_detail, seed, created_at, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 `
	_, err := r.db.ExecContext(ctx, query, job.ID, job.Method, job.Passes, job.Verify, job.RequestedBy,
		string(job.State), job.Progress, string(job.ErrorKind), job.ErrorDetail, job.Seed, job.CreatedAt,
		nullTime(job.StartedAt), nullTime(job.EndedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	taskQuery :=
		`INSERT INTO tasks (job_id, device_id, position, state)
		 VALUES ($1, $2, $3, $4)
		 `
	for i, t := range tasks {
		if _, err := r.db.ExecContext(ctx, taskQuery, t.JobID, t.DeviceID, i, string(t.State)); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

const selectJob = `SELECT id, method, passes, verify, requested_by, state, progress,
		        error_kind, error_detail, seed, created_at, started_at, ended_at
		 FROM jobs`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (models.Job, error) {
	var (
		j              models.Job
		state, kind    string
		started, ended sql.NullTime
	)
	err := s.Scan(&j.ID, &j.Method, &j.Passes, &j.Verify, &j.RequestedBy, &state, &j.Progress,
		&kind, &j.ErrorDetail, &j.Seed, &j.CreatedAt, &started, &ended)
	j.State = models.JobState(state)
	j.ErrorKind = models.ErrorKind(kind)
	j.StartedAt = timePtr(started)
	j.EndedAt = timePtr(ended)
	return j, err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	j, err := scanJob(r.db.QueryRowContext(ctx, selectJob+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if j.DeviceIDs, err = r.deviceIDs(ctx, id); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PostgresRepository) deviceIDs(ctx context.Context, jobID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT device_id FROM tasks WHERE job_id = $1 ORDER BY position`, jobID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	var (
		conds []string
		args  []any
	)
	if filter.State != "" {
		args = append(args, string(filter.State))
		conds = append(conds, fmt.Sprintf("state = $%d", len(args)))
	}
	if filter.RequestedBy != "" {
		args = append(args, filter.RequestedBy)
		conds = append(conds, fmt.Sprintf("requested_by = $%d", len(args)))
	}
	query := selectJob
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i := range out {
		if out[i].DeviceIDs, err = r.deviceIDs(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, job *models.Job) error {
	query :=
		`UPDATE jobs SET state = $2, progress = $3, error_kind = $4, error_detail = $5,
		                 started_at = $6, ended_at = $7
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, job.ID, string(job.State), job.Progress,
		string(job.ErrorKind), job.ErrorDetail, nullTime(job.StartedAt), nullTime(job.EndedAt))
	return checkAffected(res, err)
}

func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

const selectTask = `SELECT job_id, device_id, state, progress, bytes_written, verified, verify_note,
		        error_kind, error_detail, started_at, ended_at
		 FROM tasks`

func scanTask(s scanner) (models.Task, error) {
	var (
		t              models.Task
		state, kind    string
		started, ended sql.NullTime
	)
	err := s.Scan(&t.JobID, &t.DeviceID, &state, &t.Progress, &t.BytesWritten, &t.Verified, &t.VerifyNote,
		&kind, &t.ErrorDetail, &started, &ended)
	t.State = models.TaskState(state)
	t.ErrorKind = models.ErrorKind(kind)
	t.StartedAt = timePtr(started)
	t.EndedAt = timePtr(ended)
	return t, err
}

func (r *PostgresRepository) Tasks(ctx context.Context, jobID string) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTask+` WHERE job_id = $1 ORDER BY position`, jobID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetTask(ctx context.Context, jobID, deviceID string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTask+` WHERE job_id = $1 AND device_id = $2`, jobID, deviceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &t, nil
}

func (r *PostgresRepository) UpdateTask(ctx context.Context, t *models.Task) error {
	query :=
		`UPDATE tasks SET state = $3, progress = $4, bytes_written = $5, verified = $6, verify_note = $7,
		                  error_kind = $8, error_detail = $9, started_at = $10, ended_at = $11
		 WHERE job_id = $1 AND device_id = $2
		 `
	res, err := r.db.ExecContext(ctx, query, t.JobID, t.DeviceID, string(t.State), t.Progress,
		t.BytesWritten, t.Verified, t.VerifyNote, string(t.ErrorKind), t.ErrorDetail,
		nullTime(t.StartedAt), nullTime(t.EndedAt))
	return checkAffected(res, err)
}

func (r *PostgresRepository) AddPassRecords(ctx context.Context, records []models.PassRecord) error {
	query :=
		`INSERT INTO pass_records (job_id, device_id, pass_index, pattern, bytes_written,
		                           sectors_failed, sectors_retried)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `
	for _, p := range records {
		_, err := r.db.ExecContext(ctx, query, p.JobID, p.DeviceID, p.PassIndex, p.Pattern,
			p.BytesWritten, p.SectorsFailed, p.SectorsRetried)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) PassRecords(ctx context.Context, jobID, deviceID string) ([]models.PassRecord, error) {
	query :=
		`SELECT job_id, device_id, pass_index, pattern, bytes_written, sectors_failed, sectors_retried
		 FROM pass_records
		 WHERE job_id = $1 AND device_id = $2
		 ORDER BY pass_index
		 `
	rows, err := r.db.QueryContext(ctx, query, jobID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.PassRecord
	for rows.Next() {
		var p models.PassRecord
		if err := rows.Scan(&p.JobID, &p.DeviceID, &p.PassIndex, &p.Pattern,
			&p.BytesWritten, &p.SectorsFailed, &p.SectorsRetried); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
