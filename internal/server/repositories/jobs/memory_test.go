package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	base := time.Now()

	for i, id := range []string{"j1", "j2", "j3"} {
		job := &models.Job{ID: id, DeviceIDs: []string{"d"}, RequestedBy: "op", State: models.JobQueued,
			CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, r.Create(ctx, job, []models.Task{{JobID: id, DeviceID: "d", State: models.TaskQueued}}))
	}
	assert.ErrorIs(t, r.Create(ctx, &models.Job{ID: "j1"}, nil), common.ErrorAlreadyExists)

	j, err := r.Get(ctx, "j2")
	require.NoError(t, err)
	j.State = models.JobFailed
	j.DeviceIDs[0] = "mutated"
	require.NoError(t, r.Update(ctx, j))

	again, err := r.Get(ctx, "j2")
	require.NoError(t, err)
	assert.Equal(t, models.JobFailed, again.State)
	assert.Equal(t, []string{"d"}, again.DeviceIDs)

	list, err := r.List(ctx, models.JobFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "j3", list[0].ID)

	list, err = r.List(ctx, models.JobFilter{State: models.JobFailed})
	require.NoError(t, err)
	require.Len(t, list, 1)

	task, err := r.GetTask(ctx, "j1", "d")
	require.NoError(t, err)
	task.State = models.TaskRunning
	require.NoError(t, r.UpdateTask(ctx, task))
	tasks, err := r.Tasks(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskRunning, tasks[0].State)

	assert.ErrorIs(t, r.UpdateTask(ctx, &models.Task{JobID: "x", DeviceID: "d"}), common.ErrorNotFound)

	require.NoError(t, r.AddPassRecords(ctx, []models.PassRecord{{JobID: "j1", DeviceID: "d", PassIndex: 0}}))
	passes, err := r.PassRecords(ctx, "j1", "d")
	require.NoError(t, err)
	assert.Len(t, passes, 1)
}
