package certificates

import (
	"context"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// Repository stores signed certificates, at most one per (job, device).
// Create returns common.ErrorAlreadyExists on a duplicate.
type Repository interface {
	Create(ctx context.Context, cert *models.Certificate, canonical []byte) error
	Get(ctx context.Context, jobID, deviceID string) (*models.Certificate, []byte, error)
	ListForJob(ctx context.Context, jobID string) ([]models.Certificate, error)
}
