package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/audit"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/certificates"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/devices"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/users"
)

// MemoryRepositoryManager hands out the same in-memory repositories
// regardless of the DBTX passed in. Pair it with dbx.NopTransactor.
type MemoryRepositoryManager struct {
	users        *users.MemoryRepository
	devices      *devices.MemoryRepository
	jobs         *jobs.MemoryRepository
	audit        *audit.MemorySink
	certificates *certificates.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:        users.NewMemoryRepository(),
		devices:      devices.NewMemoryRepository(),
		jobs:         jobs.NewMemoryRepository(),
		audit:        audit.NewMemorySink(),
		certificates: certificates.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository     { return m.users }
func (m *MemoryRepositoryManager) Devices(dbx.DBTX) devices.Repository { return m.devices }
func (m *MemoryRepositoryManager) Jobs(dbx.DBTX) jobs.Repository       { return m.jobs }
func (m *MemoryRepositoryManager) Audit(dbx.DBTX) audit.Repository     { return m.audit }

func (m *MemoryRepositoryManager) Certificates(dbx.DBTX) certificates.Repository {
	return m.certificates
}

// CertificateStore exposes the concrete certificate store.
func (m *MemoryRepositoryManager) CertificateStore() *certificates.MemoryRepository {
	return m.certificates
}
