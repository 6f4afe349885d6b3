package ledger

import (
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// State is a job reconstructed from its ledger.
type State struct {
	JobID string
	Job   models.JobState
	Tasks map[string]models.TaskState
}

// Replay rebuilds job and task states from entries in commit order. Each
// entry's BeforeState must match the state reached so far; tasks start
// out queued.
func Replay(entries []models.AuditEntry) (State, error) {
	st := State{Tasks: make(map[string]models.TaskState)}
	var last int64

	for _, e := range entries {
		if st.JobID == "" {
			st.JobID = e.JobID
		}
		if e.JobID != st.JobID {
			return st, fmt.Errorf("entry %d belongs to job %s, not %s", e.Seq, e.JobID, st.JobID)
		}
		if e.Seq <= last {
			return st, fmt.Errorf("entry %d out of order after %d", e.Seq, last)
		}
		last = e.Seq

		if e.DeviceID == "" {
			if string(st.Job) != e.BeforeState {
				return st, fmt.Errorf("entry %d: job is %q, entry expects %q", e.Seq, st.Job, e.BeforeState)
			}
			st.Job = models.JobState(e.AfterState)
			continue
		}
		cur, seen := st.Tasks[e.DeviceID]
		if !seen {
			cur = models.TaskQueued
		}
		if string(cur) != e.BeforeState {
			return st, fmt.Errorf("entry %d: task %s is %q, entry expects %q", e.Seq, e.DeviceID, cur, e.BeforeState)
		}
		st.Tasks[e.DeviceID] = models.TaskState(e.AfterState)
	}
	return st, nil
}
