package services

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// atomicFloat is a float64 that only moves forward.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) StoreMax(v float64) {
	for {
		old := f.bits.Load()
		if math.Float64frombits(old) >= v {
			return
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

type taskProgress struct {
	fraction atomicFloat
	bytes    atomic.Int64
}

type progressUpdate struct {
	deviceID string
	fraction float64
}

// activeJob is the in-memory side of a running job. tasks is fixed at
// creation and read without locking.
type activeJob struct {
	job      models.Job
	tasks    map[string]*taskProgress
	progress atomicFloat
	updates  chan progressUpdate

	cancelRequested atomic.Bool
	cancelledBy     atomic.Pointer[string]
	stop            context.CancelFunc
}

func newActiveJob(job models.Job) *activeJob {
	j := &activeJob{
		job:     job,
		tasks:   make(map[string]*taskProgress, len(job.DeviceIDs)),
		updates: make(chan progressUpdate, 1),
	}
	for _, id := range job.DeviceIDs {
		j.tasks[id] = &taskProgress{}
	}
	return j
}

// requestCancel sets the cancel flag. It reports false if it was already set.
func (j *activeJob) requestCancel(actor string) bool {
	if !j.cancelRequested.CompareAndSwap(false, true) {
		return false
	}
	j.cancelledBy.Store(&actor)
	return true
}

func (j *activeJob) cancelActor() string {
	if p := j.cancelledBy.Load(); p != nil {
		return *p
	}
	return actorSystem
}

// publish hands a snapshot to the collector. When the channel is full the
// stale snapshot is dropped in favour of the new one.
func (j *activeJob) publish(u progressUpdate) {
	select {
	case j.updates <- u:
		return
	default:
	}
	select {
	case <-j.updates:
	default:
	}
	select {
	case j.updates <- u:
	default:
	}
}

// record stores a device's progress and publishes it.
func (j *activeJob) record(deviceID string, fraction float64, bytes int64) {
	tp := j.tasks[deviceID]
	tp.fraction.StoreMax(fraction)
	tp.bytes.Store(bytes)
	j.publish(progressUpdate{deviceID: deviceID, fraction: fraction})
}

// overlay copies live progress onto rows loaded from storage.
func (j *activeJob) overlay(job *models.Job, tasks []models.Task) {
	if job.State == models.JobRunning {
		job.Progress = max(job.Progress, j.progress.Load())
	}
	for i := range tasks {
		tp, ok := j.tasks[tasks[i].DeviceID]
		if !ok || tasks[i].State != models.TaskRunning {
			continue
		}
		tasks[i].Progress = max(tasks[i].Progress, tp.fraction.Load())
		tasks[i].BytesWritten = max(tasks[i].BytesWritten, tp.bytes.Load())
	}
}
