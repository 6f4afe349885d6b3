package devices

import (
	"context"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// Repository stores the last known device inventory.
type Repository interface {
	Upsert(ctx context.Context, d models.Device) error
	Get(ctx context.Context, id string) (*models.Device, error)
	List(ctx context.Context) ([]models.Device, error)
}
