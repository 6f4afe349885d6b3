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

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Devices(db dbx.DBTX) devices.Repository
	Jobs(db dbx.DBTX) jobs.Repository
	Audit(db dbx.DBTX) audit.Repository
	Certificates(db dbx.DBTX) certificates.Repository
}
