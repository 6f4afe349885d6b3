package jobs

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

type taskKey struct{ job, device string }

// MemoryRepository keeps jobs in process memory. Values are copied in and
// out so callers never share state with the store.
type MemoryRepository struct {
	mu     sync.RWMutex
	jobs   map[string]models.Job
	tasks  map[taskKey]models.Task
	passes map[taskKey][]models.PassRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		jobs:   make(map[string]models.Job),
		tasks:  make(map[taskKey]models.Task),
		passes: make(map[taskKey][]models.PassRecord),
	}
}

func cloneJob(j models.Job) models.Job {
	j.DeviceIDs = append([]string(nil), j.DeviceIDs...)
	j.Seed = append([]byte(nil), j.Seed...)
	return j
}

func (r *MemoryRepository) Create(ctx context.Context, job *models.Job, tasks []models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.jobs[job.ID] = cloneJob(*job)
	for _, t := range tasks {
		r.tasks[taskKey{t.JobID, t.DeviceID}] = t
	}
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	j = cloneJob(j)
	return &j, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Job
	for _, j := range r.jobs {
		if filter.State != "" && j.State != filter.State {
			continue
		}
		if filter.RequestedBy != "" && j.RequestedBy != filter.RequestedBy {
			continue
		}
		out = append(out, cloneJob(j))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.jobs[job.ID]
	if !ok {
		return common.ErrorNotFound
	}
	cur.State = job.State
	cur.Progress = job.Progress
	cur.ErrorKind = job.ErrorKind
	cur.ErrorDetail = job.ErrorDetail
	cur.StartedAt = job.StartedAt
	cur.EndedAt = job.EndedAt
	r.jobs[job.ID] = cur
	return nil
}

func (r *MemoryRepository) Tasks(ctx context.Context, jobID string) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[jobID]
	if !ok {
		return nil, nil
	}
	out := make([]models.Task, 0, len(j.DeviceIDs))
	for _, d := range j.DeviceIDs {
		if t, ok := r.tasks[taskKey{jobID, d}]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetTask(ctx context.Context, jobID, deviceID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[taskKey{jobID, deviceID}]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *MemoryRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := taskKey{task.JobID, task.DeviceID}
	if _, ok := r.tasks[k]; !ok {
		return common.ErrorNotFound
	}
	r.tasks[k] = *task
	return nil
}

func (r *MemoryRepository) AddPassRecords(ctx context.Context, records []models.PassRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range records {
		k := taskKey{p.JobID, p.DeviceID}
		r.passes[k] = append(r.passes[k], p)
	}
	return nil
}

func (r *MemoryRepository) PassRecords(ctx context.Context, jobID, deviceID string) ([]models.PassRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.PassRecord(nil), r.passes[taskKey{jobID, deviceID}]...), nil
}
