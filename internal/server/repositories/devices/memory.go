package devices

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	devices map[string]models.Device
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{devices: make(map[string]models.Device)}
}

func (r *MemoryRepository) Upsert(ctx context.Context, d models.Device) error {
	r.mu.Lock()
	r.devices[d.ID] = d
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &d, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
