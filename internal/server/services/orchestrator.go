package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/certs"
	"github.com/dmitrijs2005/sanitizer/internal/server/devices"
	"github.com/dmitrijs2005/sanitizer/internal/server/ledger"
	"github.com/dmitrijs2005/sanitizer/internal/server/locks"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sanitizer/internal/server/sanitize"
)

const (
	actorSystem = "system"
	seedLen     = 32
)

// OrchestratorOptions tunes job execution.
type OrchestratorOptions struct {
	// JobMaxDuration bounds every task of a job. Zero means no limit.
	JobMaxDuration time.Duration
	// VerifyExceptions lists, per device ID, sectors known to be unreadable.
	VerifyExceptions map[string][]int64
}

// SubmitRequest asks for one method to be applied to a set of devices.
type SubmitRequest struct {
	DeviceIDs   []string
	Method      string
	Passes      int
	Verify      bool
	RequestedBy string
}

// JobStatus is a point-in-time view of a job and its tasks.
type JobStatus struct {
	Job   models.Job
	Tasks []models.Task
}

type taskOutcome struct {
	state  models.TaskState
	kind   models.ErrorKind
	detail string
}

// Orchestrator runs sanitization jobs: it takes device locks, drives one
// worker per device through the method engine, records every transition in
// the ledger and asks the issuer for certificates.
type Orchestrator struct {
	db          dbx.Transactor
	repomanager repomanager.RepositoryManager
	ledger      *ledger.Ledger
	locks       *locks.Table
	provider    devices.Provider
	engine      *sanitize.Engine
	issuer      *certs.Issuer
	opts        OrchestratorOptions
	logger      logging.Logger
	now         func() time.Time
	newID       func() string

	mu      sync.Mutex
	running map[string]*activeJob
	wg      sync.WaitGroup
}

// NewOrchestrator wires an Orchestrator. issuer may be nil, in which case
// no certificates are issued automatically.
func NewOrchestrator(db dbx.Transactor, m repomanager.RepositoryManager, l *ledger.Ledger, lt *locks.Table,
	p devices.Provider, engine *sanitize.Engine, issuer *certs.Issuer, opts OrchestratorOptions, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		db:          db,
		repomanager: m,
		ledger:      l,
		locks:       lt,
		provider:    p,
		engine:      engine,
		issuer:      issuer,
		opts:        opts,
		logger:      logger.With("module", "orchestrator"),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		running:     make(map[string]*activeJob),
	}
}

func (o *Orchestrator) register(j *activeJob) {
	o.mu.Lock()
	o.running[j.job.ID] = j
	o.mu.Unlock()
}

func (o *Orchestrator) unregister(jobID string) {
	o.mu.Lock()
	delete(o.running, jobID)
	o.mu.Unlock()
}

func (o *Orchestrator) lookup(jobID string) *activeJob {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running[jobID]
}

// SubmitJob validates the request, locks every device, records the job as
// queued and then running, and starts one worker per device. It returns as
// soon as the workers are started.
func (o *Orchestrator) SubmitJob(ctx context.Context, req SubmitRequest) (*models.Job, error) {
	method, err := sanitize.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if req.Passes < 0 {
		return nil, fmt.Errorf("passes must be positive: %w", common.ErrInvalidRequest)
	}
	passes := max(req.Passes, 1)
	if !method.Overwrite() {
		passes = 1
	}

	ids, err := o.checkDevices(ctx, req.DeviceIDs, method)
	if err != nil {
		return nil, err
	}

	job := models.Job{
		ID:          o.newID(),
		DeviceIDs:   ids,
		Method:      string(method),
		Passes:      passes,
		Verify:      req.Verify,
		RequestedBy: req.RequestedBy,
		State:       models.JobQueued,
		Seed:        common.GenerateRandByteArray(seedLen),
		CreatedAt:   o.now(),
	}
	tasks := make([]models.Task, len(ids))
	for i, id := range ids {
		tasks[i] = models.Task{JobID: job.ID, DeviceID: id, State: models.TaskQueued}
	}

	if err := o.locks.TryAcquireAll(job.ID, ids); err != nil {
		return nil, err
	}

	active := newActiveJob(job)
	o.register(active)

	submitted := &models.AuditEntry{
		JobID:      job.ID,
		Actor:      req.RequestedBy,
		Action:     models.ActionJobSubmitted,
		AfterState: string(models.JobQueued),
		Detail:     fmt.Sprintf("method=%s passes=%d verify=%t devices=%s", method, passes, req.Verify, strings.Join(ids, ",")),
	}
	if err := o.ledger.Append(ctx, submitted, func(ctx context.Context, tx dbx.DBTX) error {
		return o.repomanager.Jobs(tx).Create(ctx, &job, tasks)
	}); err != nil {
		o.abandon(active)
		return nil, err
	}

	startedAt := o.now()
	started := &models.AuditEntry{
		JobID:       job.ID,
		Actor:       req.RequestedBy,
		Action:      models.ActionJobStarted,
		BeforeState: string(models.JobQueued),
		AfterState:  string(models.JobRunning),
	}
	if err := o.ledger.Append(ctx, started, func(ctx context.Context, tx dbx.DBTX) error {
		repo := o.repomanager.Jobs(tx)
		cur, err := repo.Get(ctx, job.ID)
		if err != nil {
			return err
		}
		if cur.State != models.JobQueued {
			return fmt.Errorf("job is %s: %w", cur.State, common.ErrJobFinished)
		}
		cur.State = models.JobRunning
		cur.StartedAt = &startedAt
		return repo.Update(ctx, cur)
	}); err != nil {
		o.abandon(active)
		return nil, err
	}

	job.State = models.JobRunning
	job.StartedAt = &startedAt
	active.job = job

	o.logger.Info(ctx, "job started", "job_id", job.ID, "method", method, "devices", len(ids), "requested_by", req.RequestedBy)
	o.start(active)
	return &job, nil
}

// checkDevices rejects empty or duplicate device lists, unknown or
// disconnected devices and hardware methods the device cannot perform.
func (o *Orchestrator) checkDevices(ctx context.Context, deviceIDs []string, method sanitize.Method) ([]string, error) {
	if len(deviceIDs) == 0 {
		return nil, fmt.Errorf("no devices given: %w", common.ErrInvalidRequest)
	}
	repo := o.repomanager.Devices(o.db.Conn())
	seen := make(map[string]struct{}, len(deviceIDs))
	ids := make([]string, 0, len(deviceIDs))

	for _, id := range deviceIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("device %s listed twice: %w", id, common.ErrInvalidRequest)
		}
		seen[id] = struct{}{}

		d, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, fmt.Errorf("device %s: %w", id, common.ErrDeviceNotFound)
			}
			return nil, err
		}
		if !d.Connected {
			return nil, fmt.Errorf("device %s is disconnected: %w", id, common.ErrDeviceNotFound)
		}
		if method == sanitize.MethodSecureErase && !d.SupportsSecureErase ||
			method == sanitize.MethodCryptoErase && !d.SupportsCryptoErase {
			return nil, fmt.Errorf("device %s does not support %s: %w", id, method, common.ErrInvalidRequest)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// abandon undoes an admission that could not be persisted.
func (o *Orchestrator) abandon(j *activeJob) {
	o.unregister(j.job.ID)
	o.locks.ReleaseAll(j.job.ID)
	o.ledger.Forget(j.job.ID)
}

func (o *Orchestrator) start(j *activeJob) {
	var ctx context.Context
	if o.opts.JobMaxDuration > 0 {
		ctx, j.stop = context.WithTimeout(context.Background(), o.opts.JobMaxDuration)
	} else {
		ctx, j.stop = context.WithCancel(context.Background())
	}

	collected := make(chan struct{})
	go o.collect(j, collected)

	outcomes := make([]taskOutcome, len(j.job.DeviceIDs))
	var workers sync.WaitGroup
	for i, id := range j.job.DeviceIDs {
		workers.Add(1)
		go func() {
			defer workers.Done()
			outcomes[i] = o.runTask(ctx, j, id)
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		workers.Wait()
		close(j.updates)
		<-collected
		j.stop()
		o.finish(j, outcomes)
	}()
}

// collect folds device snapshots into the job's overall progress.
func (o *Orchestrator) collect(j *activeJob, done chan<- struct{}) {
	defer close(done)

	latest := make(map[string]float64, len(j.tasks))
	next := 0.25
	for u := range j.updates {
		latest[u.deviceID] = u.fraction
		var sum float64
		for _, f := range latest {
			sum += f
		}
		overall := sum / float64(len(j.tasks))
		j.progress.StoreMax(overall)
		for next <= 1 && overall >= next {
			o.logger.Debug(context.Background(), "job progress", "job_id", j.job.ID, "percent", int(next*100))
			next += 0.25
		}
	}
}

func (o *Orchestrator) runTask(ctx context.Context, j *activeJob, deviceID string) taskOutcome {
	defer o.locks.Release(j.job.ID, deviceID)

	log := o.logger.With("job_id", j.job.ID, "device_id", deviceID)
	persistCtx := context.WithoutCancel(ctx)

	if j.cancelRequested.Load() {
		return o.skipTask(persistCtx, j, deviceID)
	}

	startedAt := o.now()
	entry := &models.AuditEntry{
		JobID:       j.job.ID,
		DeviceID:    deviceID,
		Actor:       actorSystem,
		Action:      models.ActionTaskStarted,
		BeforeState: string(models.TaskQueued),
		AfterState:  string(models.TaskRunning),
	}
	if err := o.ledger.Append(persistCtx, entry, func(ctx context.Context, tx dbx.DBTX) error {
		repo := o.repomanager.Jobs(tx)
		t, err := repo.GetTask(ctx, j.job.ID, deviceID)
		if err != nil {
			return err
		}
		t.State = models.TaskRunning
		t.StartedAt = &startedAt
		return repo.UpdateTask(ctx, t)
	}); err != nil {
		log.Error(persistCtx, "task start not persisted", "error", err)
		return taskOutcome{state: models.TaskFailed, kind: models.ErrorKindPersistence, detail: err.Error()}
	}

	h, err := o.provider.Open(ctx, deviceID)
	if err != nil {
		return o.completeTask(persistCtx, j, deviceID, startedAt, sanitize.Result{}, fmt.Errorf("open device: %w", err))
	}

	req := sanitize.Request{
		JobID:      j.job.ID,
		DeviceID:   deviceID,
		Method:     sanitize.Method(j.job.Method),
		Passes:     j.job.Passes,
		Verify:     j.job.Verify,
		Seed:       j.job.Seed,
		Unreadable: o.opts.VerifyExceptions[deviceID],
		Cancelled:  j.cancelRequested.Load,
	}
	res, runErr := o.engine.Execute(ctx, h, req, func(p sanitize.Progress) {
		j.record(deviceID, p.Fraction(), p.BytesWritten)
	})
	if err := h.Close(); err != nil {
		log.Warn(persistCtx, "device close failed", "error", err)
	}
	return o.completeTask(persistCtx, j, deviceID, startedAt, res, runErr)
}

// skipTask cancels a task that never started.
func (o *Orchestrator) skipTask(ctx context.Context, j *activeJob, deviceID string) taskOutcome {
	ended := o.now()
	out := taskOutcome{state: models.TaskCancelled, kind: models.ErrorKindCancelled, detail: "cancelled before start"}
	entry := &models.AuditEntry{
		JobID:       j.job.ID,
		DeviceID:    deviceID,
		Actor:       j.cancelActor(),
		Action:      models.ActionTaskCancelled,
		BeforeState: string(models.TaskQueued),
		AfterState:  string(models.TaskCancelled),
		Detail:      out.detail,
	}
	if err := o.ledger.Append(ctx, entry, func(ctx context.Context, tx dbx.DBTX) error {
		return o.repomanager.Jobs(tx).UpdateTask(ctx, &models.Task{
			JobID:       j.job.ID,
			DeviceID:    deviceID,
			State:       out.state,
			ErrorKind:   out.kind,
			ErrorDetail: out.detail,
			EndedAt:     &ended,
		})
	}); err != nil {
		o.logger.Error(ctx, "task cancellation not persisted", "job_id", j.job.ID, "device_id", deviceID, "error", err)
		return taskOutcome{state: models.TaskFailed, kind: models.ErrorKindPersistence, detail: err.Error()}
	}
	return out
}

// completeTask records the engine's result: pass records, the task row and
// its ledger entry commit together.
func (o *Orchestrator) completeTask(ctx context.Context, j *activeJob, deviceID string, startedAt time.Time,
	res sanitize.Result, runErr error) taskOutcome {
	log := o.logger.With("job_id", j.job.ID, "device_id", deviceID)

	out := taskOutcome{state: models.TaskCompleted}
	action := models.ActionTaskCompleted
	actor := actorSystem
	detail := res.VerificationNote
	if runErr != nil {
		out.kind = sanitize.Kind(runErr)
		out.detail = runErr.Error()
		detail = out.detail
		if out.kind == models.ErrorKindCancelled {
			out.state = models.TaskCancelled
			action = models.ActionTaskCancelled
			actor = j.cancelActor()
		} else {
			out.state = models.TaskFailed
			action = models.ActionTaskFailed
		}
	}

	progress := j.tasks[deviceID].fraction.Load()
	if out.state == models.TaskCompleted {
		progress = 1
	}
	ended := o.now()
	task := &models.Task{
		JobID:        j.job.ID,
		DeviceID:     deviceID,
		State:        out.state,
		Progress:     progress,
		BytesWritten: res.BytesWritten,
		Verified:     out.state == models.TaskCompleted && res.Verified,
		VerifyNote:   res.VerificationNote,
		ErrorKind:    out.kind,
		ErrorDetail:  out.detail,
		StartedAt:    &startedAt,
		EndedAt:      &ended,
	}
	entry := &models.AuditEntry{
		JobID:       j.job.ID,
		DeviceID:    deviceID,
		Actor:       actor,
		Action:      action,
		BeforeState: string(models.TaskRunning),
		AfterState:  string(out.state),
		Detail:      detail,
	}
	if err := o.ledger.Append(ctx, entry, func(ctx context.Context, tx dbx.DBTX) error {
		repo := o.repomanager.Jobs(tx)
		if len(res.Passes) > 0 {
			if err := repo.AddPassRecords(ctx, res.Passes); err != nil {
				return err
			}
		}
		return repo.UpdateTask(ctx, task)
	}); err != nil {
		log.Error(ctx, "task result not persisted", "state", out.state, "error", err)
		return taskOutcome{state: models.TaskFailed, kind: models.ErrorKindPersistence, detail: err.Error()}
	}

	if runErr != nil {
		log.Warn(ctx, "task ended", "state", out.state, "kind", out.kind, "error", runErr)
		return out
	}
	log.Info(ctx, "task completed", "bytes", res.BytesWritten, "verified", task.Verified)
	o.certify(ctx, j, deviceID)
	return out
}

func (o *Orchestrator) certify(ctx context.Context, j *activeJob, deviceID string) {
	if o.issuer == nil {
		return
	}
	cert, err := o.issuer.Issue(ctx, j.job.ID, deviceID, j.job.RequestedBy)
	switch {
	case err == nil:
		o.logger.Info(ctx, "certificate ready", "job_id", j.job.ID, "device_id", deviceID, "certificate_id", cert.ID)
	case errors.Is(err, common.ErrNotEligible):
		o.logger.Info(ctx, "no certificate for task", "job_id", j.job.ID, "device_id", deviceID, "reason", err)
	default:
		o.logger.Error(ctx, "certificate issue failed", "job_id", j.job.ID, "device_id", deviceID, "error", err)
	}
}

// finalState applies the sub-task policy.
func finalState(total, completed int, cancelRequested bool) models.JobState {
	switch {
	case cancelRequested && completed == 0:
		return models.JobCancelled
	case completed == total:
		return models.JobCompleted
	case completed == 0:
		return models.JobFailed
	default:
		return models.JobPartiallyCompleted
	}
}

func (o *Orchestrator) finish(j *activeJob, outcomes []taskOutcome) {
	ctx := context.Background()
	defer func() {
		o.locks.ReleaseAll(j.job.ID)
		o.unregister(j.job.ID)
		o.ledger.Forget(j.job.ID)
	}()

	var completed int
	var kind models.ErrorKind
	var problems []string
	var sum float64
	for i, out := range outcomes {
		id := j.job.DeviceIDs[i]
		if out.state == models.TaskCompleted {
			completed++
			sum++
			continue
		}
		sum += j.tasks[id].fraction.Load()
		if kind == models.ErrorKindNone || kind == models.ErrorKindCancelled {
			kind = out.kind
		}
		problems = append(problems, fmt.Sprintf("%s: %s", id, out.detail))
	}

	state := finalState(len(outcomes), completed, j.cancelRequested.Load())
	action := models.ActionJobFinished
	actor := actorSystem
	switch state {
	case models.JobCompleted:
		kind = models.ErrorKindNone
	case models.JobCancelled:
		kind = models.ErrorKindCancelled
		action = models.ActionJobCancelled
		actor = j.cancelActor()
	}
	detail := strings.Join(problems, "; ")
	progress := max(j.progress.Load(), sum/float64(len(outcomes)))
	ended := o.now()

	entry := &models.AuditEntry{
		JobID:       j.job.ID,
		Actor:       actor,
		Action:      action,
		BeforeState: string(models.JobRunning),
		AfterState:  string(state),
		Detail:      fmt.Sprintf("%d of %d devices completed", completed, len(outcomes)),
	}
	if err := o.ledger.Append(ctx, entry, func(ctx context.Context, tx dbx.DBTX) error {
		repo := o.repomanager.Jobs(tx)
		cur, err := repo.Get(ctx, j.job.ID)
		if err != nil {
			return err
		}
		cur.State = state
		cur.Progress = progress
		cur.ErrorKind = kind
		cur.ErrorDetail = detail
		cur.EndedAt = &ended
		return repo.Update(ctx, cur)
	}); err != nil {
		o.logger.Error(ctx, "job result not persisted", "job_id", j.job.ID, "state", state, "error", err)
		return
	}
	o.logger.Info(ctx, "job finished", "job_id", j.job.ID, "state", state, "completed", completed, "devices", len(outcomes))
}

// CancelJob stops a job. A running job is flagged and its workers stop at
// the next chunk boundary; a queued job is cancelled directly. Finished jobs
// yield ErrJobFinished.
func (o *Orchestrator) CancelJob(ctx context.Context, jobID, requester string) error {
	if j := o.lookup(jobID); j != nil {
		if j.requestCancel(requester) {
			o.logger.Info(ctx, "job cancellation requested", "job_id", jobID, "requested_by", requester)
		}
		return nil
	}

	job, err := o.repomanager.Jobs(o.db.Conn()).Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrJobNotFound
		}
		return err
	}
	if job.State.Terminal() {
		return common.ErrJobFinished
	}
	// Queued jobs hold no locks. A running job without workers was left
	// behind by an earlier process and is closed out the same way.
	if err := o.closeOut(ctx, job, models.JobCancelled, "cancelled by "+requester, requester); err != nil {
		if errors.Is(err, common.ErrJobFinished) {
			return common.ErrJobFinished
		}
		return err
	}
	o.logger.Info(ctx, "job cancelled", "job_id", jobID, "requested_by", requester)
	return nil
}

// errTaskSettled skips a task another caller already moved to a terminal
// state.
var errTaskSettled = errors.New("task already terminal")

// closeOut moves a job without workers, and its unfinished tasks, to a
// terminal state.
func (o *Orchestrator) closeOut(ctx context.Context, job *models.Job, state models.JobState, detail, actor string) error {
	defer o.ledger.Forget(job.ID)

	taskState, taskAction, jobAction := models.TaskCancelled, models.ActionTaskCancelled, models.ActionJobCancelled
	kind := models.ErrorKindCancelled
	if state != models.JobCancelled {
		taskState, taskAction, jobAction = models.TaskFailed, models.ActionTaskFailed, models.ActionJobFinished
		kind = models.ErrorKindDevice
	}

	tasks, err := o.repomanager.Jobs(o.db.Conn()).Tasks(ctx, job.ID)
	if err != nil {
		return err
	}
	ended := o.now()
	for _, t := range tasks {
		if t.State.Terminal() {
			continue
		}
		before := t.State
		t.State = taskState
		t.ErrorKind = kind
		t.ErrorDetail = detail
		t.EndedAt = &ended
		entry := &models.AuditEntry{
			JobID:       job.ID,
			DeviceID:    t.DeviceID,
			Actor:       actor,
			Action:      taskAction,
			BeforeState: string(before),
			AfterState:  string(taskState),
			Detail:      detail,
		}
		err := o.ledger.Append(ctx, entry, func(ctx context.Context, tx dbx.DBTX) error {
			repo := o.repomanager.Jobs(tx)
			cur, err := repo.GetTask(ctx, job.ID, t.DeviceID)
			if err != nil {
				return err
			}
			if cur.State.Terminal() {
				return errTaskSettled
			}
			return repo.UpdateTask(ctx, &t)
		})
		if errors.Is(err, errTaskSettled) {
			continue
		}
		if err != nil {
			return err
		}
	}

	before := job.State
	entry := &models.AuditEntry{
		JobID:       job.ID,
		Actor:       actor,
		Action:      jobAction,
		BeforeState: string(before),
		AfterState:  string(state),
		Detail:      detail,
	}
	return o.ledger.Append(ctx, entry, func(ctx context.Context, tx dbx.DBTX) error {
		repo := o.repomanager.Jobs(tx)
		cur, err := repo.Get(ctx, job.ID)
		if err != nil {
			return err
		}
		if cur.State != before {
			return fmt.Errorf("job is %s: %w", cur.State, common.ErrJobFinished)
		}
		cur.State = state
		cur.ErrorKind = kind
		cur.ErrorDetail = detail
		cur.EndedAt = &ended
		return repo.Update(ctx, cur)
	})
}

// Recover closes out jobs left unfinished by a previous process: running
// jobs fail, queued jobs are cancelled. Call it before serving requests.
func (o *Orchestrator) Recover(ctx context.Context) error {
	repo := o.repomanager.Jobs(o.db.Conn())
	for _, st := range []models.JobState{models.JobRunning, models.JobQueued} {
		jobs, err := repo.List(ctx, models.JobFilter{State: st})
		if err != nil {
			return err
		}
		for i := range jobs {
			job := &jobs[i]
			if o.lookup(job.ID) != nil {
				continue
			}
			final, detail := models.JobFailed, "interrupted by server restart"
			if st == models.JobQueued {
				final, detail = models.JobCancelled, "not started before server restart"
			}
			if err := o.closeOut(ctx, job, final, detail, actorSystem); err != nil {
				return fmt.Errorf("recover job %s: %w", job.ID, err)
			}
			o.logger.Warn(ctx, "recovered unfinished job", "job_id", job.ID, "was", st, "now", final)
		}
	}
	return nil
}

// GetStatus returns the stored job overlaid with live progress.
func (o *Orchestrator) GetStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	repo := o.repomanager.Jobs(o.db.Conn())
	job, err := repo.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrJobNotFound
		}
		return nil, err
	}
	tasks, err := repo.Tasks(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j := o.lookup(jobID); j != nil {
		j.overlay(job, tasks)
	}
	return &JobStatus{Job: *job, Tasks: tasks}, nil
}

// ListJobs returns jobs newest first.
func (o *Orchestrator) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	jobs, err := o.repomanager.Jobs(o.db.Conn()).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if j := o.lookup(jobs[i].ID); j != nil {
			j.overlay(&jobs[i], nil)
		}
	}
	return jobs, nil
}

// Audit returns the ledger entries of a job in commit order.
func (o *Orchestrator) Audit(ctx context.Context, jobID string) ([]models.AuditEntry, error) {
	if _, err := o.repomanager.Jobs(o.db.Conn()).Get(ctx, jobID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrJobNotFound
		}
		return nil, err
	}
	return o.ledger.ReadForJob(ctx, jobID)
}

// Wait blocks until every started job has finished or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown cancels every running job and waits for workers to record
// their results.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	for _, j := range o.running {
		j.requestCancel(actorSystem)
	}
	o.mu.Unlock()
	return o.Wait(ctx)
}
