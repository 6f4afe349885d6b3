package audit

import (
	"context"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// Repository is append-only. Append assigns the next per-job sequence
// number to entry.Seq.
type Repository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListForJob(ctx context.Context, jobID string) ([]models.AuditEntry, error)
}
