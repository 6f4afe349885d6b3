// Package locks is the device lock table. A device is held by at most one
// job at a time; a job acquires all of its devices at once or none of them.
package locks

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/sanitizer/internal/common"
)

type Table struct {
	mu     sync.Mutex
	owners map[string]string
}

func NewTable() *Table {
	return &Table{owners: make(map[string]string)}
}

// TryAcquireAll locks every device for jobID or returns ErrDeviceBusy
// without taking any. It never waits.
func (t *Table) TryAcquireAll(jobID string, deviceIDs []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range deviceIDs {
		if owner, ok := t.owners[id]; ok && owner != jobID {
			return fmt.Errorf("device %s held by job %s: %w", id, owner, common.ErrDeviceBusy)
		}
	}
	for _, id := range deviceIDs {
		t.owners[id] = jobID
	}
	return nil
}

// Release frees the device if jobID holds it.
func (t *Table) Release(jobID, deviceID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.owners[deviceID] != jobID {
		return false
	}
	delete(t.owners, deviceID)
	return true
}

// ReleaseAll frees every device held by jobID.
func (t *Table) ReleaseAll(jobID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for dev, owner := range t.owners {
		if owner == jobID {
			delete(t.owners, dev)
			n++
		}
	}
	return n
}

// Owner returns the job holding deviceID.
func (t *Table) Owner(deviceID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	owner, ok := t.owners[deviceID]
	return owner, ok
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.owners)
}
