package models

import "time"

// AuditAction names what happened in a ledger entry.
type AuditAction string

const (
	ActionJobSubmitted  AuditAction = "job.submitted"
	ActionJobStarted    AuditAction = "job.started"
	ActionJobFinished   AuditAction = "job.finished"
	ActionJobCancelled  AuditAction = "job.cancelled"
	ActionTaskStarted   AuditAction = "task.started"
	ActionTaskCompleted AuditAction = "task.completed"
	ActionTaskFailed    AuditAction = "task.failed"
	ActionTaskCancelled AuditAction = "task.cancelled"
)

// AuditEntry records one state transition of a job or one of its tasks.
// DeviceID is empty for job-level transitions. Seq is 1-based and strictly
// increasing per job.
type AuditEntry struct {
	Seq         int64       `json:"seq"`
	JobID       string      `json:"job_id"`
	DeviceID    string      `json:"device_id,omitempty"`
	Actor       string      `json:"actor"`
	Action      AuditAction `json:"action"`
	BeforeState string      `json:"before_state"`
	AfterState  string      `json:"after_state"`
	Detail      string      `json:"detail,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
