package models

import "time"

// JobState is the lifecycle state of a job.
type JobState string

const (
	JobQueued             JobState = "queued"
	JobRunning            JobState = "running"
	JobCompleted          JobState = "completed"
	JobPartiallyCompleted JobState = "partially_completed"
	JobFailed             JobState = "failed"
	JobCancelled          JobState = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s JobState) Terminal() bool {
	switch s {
	case JobCompleted, JobPartiallyCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// TaskState is the lifecycle state of one device within a job.
type TaskState string

const (
	TaskQueued    TaskState = "queued"
	TaskRunning   TaskState = "running"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
	TaskCancelled TaskState = "cancelled"
)

func (s TaskState) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskCancelled
}

// ErrorKind classifies why a job or task did not complete.
type ErrorKind string

const (
	ErrorKindNone         ErrorKind = ""
	ErrorKindIO           ErrorKind = "io"
	ErrorKindVerification ErrorKind = "verification"
	ErrorKindTimeout      ErrorKind = "timeout"
	ErrorKindCancelled    ErrorKind = "cancelled"
	ErrorKindDevice       ErrorKind = "device"
	ErrorKindPersistence  ErrorKind = "persistence"
)

// Job is one sanitization request spanning one or more devices.
type Job struct {
	ID          string
	DeviceIDs   []string
	Method      string
	Passes      int
	Verify      bool
	RequestedBy string
	State       JobState
	Progress    float64
	ErrorKind   ErrorKind
	ErrorDetail string
	Seed        []byte
	CreatedAt   time.Time
	StartedAt   *time.Time
	EndedAt     *time.Time
}

// Task is the per-device part of a job.
type Task struct {
	JobID        string
	DeviceID     string
	State        TaskState
	Progress     float64
	BytesWritten int64
	Verified     bool
	VerifyNote   string
	ErrorKind    ErrorKind
	ErrorDetail  string
	StartedAt    *time.Time
	EndedAt      *time.Time
}

// PassRecord is the outcome of a single pass on one device.
type PassRecord struct {
	JobID          string
	DeviceID       string
	PassIndex      int
	Pattern        string
	BytesWritten   int64
	SectorsFailed  int64
	SectorsRetried int64
}

// JobFilter narrows ListJobs results. Zero values match everything.
type JobFilter struct {
	State       JobState
	RequestedBy string
	Limit       int
}
