package jobs

import (
	"context"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// Repository persists jobs, their per-device tasks and pass records.
type Repository interface {
	Create(ctx context.Context, job *models.Job, tasks []models.Task) error
	Get(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error

	Tasks(ctx context.Context, jobID string) ([]models.Task, error)
	GetTask(ctx context.Context, jobID, deviceID string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error

	AddPassRecords(ctx context.Context, records []models.PassRecord) error
	PassRecords(ctx context.Context, jobID, deviceID string) ([]models.PassRecord, error)
}
