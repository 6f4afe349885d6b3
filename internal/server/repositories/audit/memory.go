package audit

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// MemorySink keeps the ledger in process memory.
type MemorySink struct {
	mu      sync.Mutex
	entries map[string][]models.AuditEntry
}

func NewMemorySink() *MemorySink {
	return &MemorySink{entries: make(map[string][]models.AuditEntry)}
}

func (s *MemorySink) Append(ctx context.Context, e *models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Seq = int64(len(s.entries[e.JobID])) + 1
	s.entries[e.JobID] = append(s.entries[e.JobID], *e)
	return nil
}

func (s *MemorySink) ListForJob(ctx context.Context, jobID string) ([]models.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditEntry(nil), s.entries[jobID]...), nil
}
