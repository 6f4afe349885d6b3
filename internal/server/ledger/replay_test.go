package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

func entry(seq int64, dev string, action models.AuditAction, before, after string) models.AuditEntry {
	return models.AuditEntry{Seq: seq, JobID: "j", DeviceID: dev, Action: action, BeforeState: before, AfterState: after}
}

func TestReplay_MixedOutcome(t *testing.T) {
	entries := []models.AuditEntry{
		entry(1, "", models.ActionJobSubmitted, "", "queued"),
		entry(2, "", models.ActionJobStarted, "queued", "running"),
		entry(3, "a", models.ActionTaskStarted, "queued", "running"),
		entry(4, "b", models.ActionTaskStarted, "queued", "running"),
		entry(5, "b", models.ActionTaskFailed, "running", "failed"),
		entry(6, "a", models.ActionTaskCompleted, "running", "completed"),
		entry(7, "", models.ActionJobFinished, "running", "partially_completed"),
	}
	st, err := Replay(entries)
	require.NoError(t, err)
	assert.Equal(t, "j", st.JobID)
	assert.Equal(t, models.JobPartiallyCompleted, st.Job)
	assert.Equal(t, map[string]models.TaskState{"a": models.TaskCompleted, "b": models.TaskFailed}, st.Tasks)
}

func TestReplay_Rejects(t *testing.T) {
	_, err := Replay([]models.AuditEntry{
		entry(1, "", models.ActionJobSubmitted, "", "queued"),
		entry(2, "", models.ActionJobFinished, "running", "completed"),
	})
	assert.Error(t, err)

	_, err = Replay([]models.AuditEntry{
		entry(2, "", models.ActionJobSubmitted, "", "queued"),
		entry(1, "", models.ActionJobStarted, "queued", "running"),
	})
	assert.Error(t, err)

	_, err = Replay([]models.AuditEntry{
		entry(1, "a", models.ActionTaskCompleted, "running", "completed"),
	})
	assert.Error(t, err)
}
