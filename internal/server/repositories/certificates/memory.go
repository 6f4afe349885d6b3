package certificates

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

type stored struct {
	cert models.Certificate
	raw  []byte
}

type MemoryRepository struct {
	mu    sync.RWMutex
	certs map[[2]string]stored
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{certs: make(map[[2]string]stored)}
}

func (r *MemoryRepository) Create(ctx context.Context, cert *models.Certificate, canonical []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := [2]string{cert.Body.JobID, cert.Body.DeviceID}
	if _, ok := r.certs[k]; ok {
		return common.ErrorAlreadyExists
	}
	r.certs[k] = stored{cert: *cert, raw: append([]byte(nil), canonical...)}
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, jobID, deviceID string) (*models.Certificate, []byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.certs[[2]string{jobID, deviceID}]
	if !ok {
		return nil, nil, common.ErrorNotFound
	}
	cert := s.cert
	return &cert, append([]byte(nil), s.raw...), nil
}

func (r *MemoryRepository) ListForJob(ctx context.Context, jobID string) ([]models.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Certificate
	for k, s := range r.certs {
		if k[0] == jobID {
			out = append(out, s.cert)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Body.DeviceID < out[j].Body.DeviceID })
	return out, nil
}

// Tamper overwrites the stored body bytes. It exists for tests of the
// retrieval integrity check.
func (r *MemoryRepository) Tamper(jobID, deviceID string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := [2]string{jobID, deviceID}
	s := r.certs[k]
	s.raw = raw
	r.certs[k] = s
}
