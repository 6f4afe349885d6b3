// Package ledger is the audit ledger: the commit point for every job and
// task transition. A transition exists once its entry is appended, and the
// append shares a transaction with the row update it describes.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/repomanager"
)

// ApplyFunc performs the state change that an entry records, using the
// same transaction handle as the append.
type ApplyFunc func(ctx context.Context, tx dbx.DBTX) error

type Ledger struct {
	db    dbx.Transactor
	repos repomanager.RepositoryManager
	now   func() time.Time

	mu   sync.Mutex
	jobs map[string]*sync.Mutex
}

func New(db dbx.Transactor, repos repomanager.RepositoryManager) *Ledger {
	return &Ledger{
		db:    db,
		repos: repos,
		now:   func() time.Time { return time.Now().UTC() },
		jobs:  make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) jobLock(jobID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.jobs[jobID]
	if !ok {
		m = &sync.Mutex{}
		l.jobs[jobID] = m
	}
	return m
}

// Forget drops the per-job mutex once a job can no longer transition.
func (l *Ledger) Forget(jobID string) {
	l.mu.Lock()
	delete(l.jobs, jobID)
	l.mu.Unlock()
}

// Append records entry and runs apply in one transaction. Entries for the
// same job are serialized. Any failure is reported as ErrPersistence and
// nothing is committed.
func (l *Ledger) Append(ctx context.Context, entry *models.AuditEntry, apply ApplyFunc) error {
	m := l.jobLock(entry.JobID)
	m.Lock()
	defer m.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	pending := *entry

	err := l.db.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if apply != nil {
			if err := apply(ctx, tx); err != nil {
				return err
			}
		}
		return l.repos.Audit(tx).Append(ctx, &pending)
	})
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", common.ErrPersistence, entry.JobID, entry.Action, err)
	}
	entry.Seq = pending.Seq
	return nil
}

// ReadForJob returns the job's entries in commit order.
func (l *Ledger) ReadForJob(ctx context.Context, jobID string) ([]models.AuditEntry, error) {
	entries, err := l.repos.Audit(l.db.Conn()).ListForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("%w: read ledger for %s: %v", common.ErrPersistence, jobID, err)
	}
	return entries, nil
}

// Hash chains SHA-256 over the JSON encoding of each entry. Any change to
// an entry or to their order changes the result.
func Hash(entries []models.AuditEntry) string {
	prev := make([]byte, sha256.Size)
	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			panic(err)
		}
		h := sha256.New()
		h.Write(prev)
		h.Write(b)
		prev = h.Sum(nil)
	}
	return hex.EncodeToString(prev)
}
