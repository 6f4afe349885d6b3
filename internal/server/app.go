// Package server wires storage, the sanitization core and the transports
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/cryptox"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/archive"
	"github.com/dmitrijs2005/sanitizer/internal/server/certs"
	"github.com/dmitrijs2005/sanitizer/internal/server/config"
	"github.com/dmitrijs2005/sanitizer/internal/server/devices"
	"github.com/dmitrijs2005/sanitizer/internal/server/health"
	"github.com/dmitrijs2005/sanitizer/internal/server/ledger"
	"github.com/dmitrijs2005/sanitizer/internal/server/locks"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sanitizer/internal/server/sanitize"
	"github.com/dmitrijs2005/sanitizer/internal/server/services"

	gs "github.com/dmitrijs2005/sanitizer/internal/server/grpc"
)

// shutdownTimeout bounds how long running jobs get to record their results.
const shutdownTimeout = 30 * time.Second

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

type App struct {
	config       *config.Config
	logger       logging.Logger
	sqlDB        *sql.DB
	db           dbx.Transactor
	gateway      *services.Gateway
	orchestrator *services.Orchestrator
	devices      *services.DeviceService
	certificates *services.CertificateService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	app := &App{config: c, logger: logger}

	m, err := app.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	signer, err := app.initSigner(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	var archiver certs.Archiver
	if c.ArchiveCertificates {
		archiver = archive.NewS3Archive(archive.Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			URLExpiry:    c.S3URLExpiry,
		})
	}

	provider, err := devices.LoadInventory(c.DeviceInventory)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("device inventory: %w", err)
	}

	l := ledger.New(app.db, m)
	issuer := certs.NewIssuer(app.db, m, l, signer, archiver, logger)
	engine := sanitize.NewEngine(sanitize.Options{
		ChunkSize:      c.ChunkSize,
		Attempts:       c.RetryAttempts,
		Backoff:        c.RetryBackoff,
		SampleFraction: c.VerifySampleFraction,
	})

	app.gateway = services.NewGateway(app.db, m, []byte(c.SecretKey), c.AccessTokenValidityDuration, logger)
	app.devices = services.NewDeviceService(app.db, m, provider, logger)
	app.certificates = services.NewCertificateService(issuer, logger)
	app.orchestrator = services.NewOrchestrator(app.db, m, l, locks.NewTable(), provider, engine, issuer,
		services.OrchestratorOptions{JobMaxDuration: c.JobMaxDuration, VerifyExceptions: c.VerifyExceptions}, logger)

	if err := app.prepare(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) initStorage(ctx context.Context) (repomanager.RepositoryManager, error) {
	switch app.config.Storage {
	case config.StorageMemory:
		app.logger.Warn(ctx, "using in-memory storage; state is lost on restart")
		app.db = dbx.NopTransactor{}
		return repomanager.NewMemoryRepositoryManager(), nil
	case config.StoragePostgres:
		db, err := sqlOpen("pgx", app.config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		m, err := repomanager.NewPostgresRepositoryManager(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := m.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		app.sqlDB = db
		app.db = dbx.NewSQLTransactor(db)
		return m, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", app.config.Storage)
	}
}

func (app *App) initSigner(ctx context.Context) (*certs.Ed25519Signer, error) {
	var (
		key ed25519.PrivateKey
		err error
	)
	if app.config.SigningKeyPath != "" {
		key, err = cryptox.LoadEd25519PrivateKey(app.config.SigningKeyPath)
	} else {
		app.logger.Warn(ctx, "no signing key configured; certificates will be signed with an ephemeral key")
		key, err = cryptox.GenerateEd25519()
	}
	if err != nil {
		return nil, fmt.Errorf("signing key: %w", err)
	}
	s := certs.NewEd25519Signer(key)
	app.logger.Info(ctx, "certificate signer ready", "key_id", s.KeyID())
	return s, nil
}

// prepare seeds the first admin, closes jobs orphaned by a previous run and
// takes an initial device inventory.
func (app *App) prepare(ctx context.Context) error {
	if err := app.gateway.Bootstrap(ctx, app.config.BootstrapAdminUser, app.config.BootstrapAdminSecret); err != nil {
		return err
	}
	if err := app.orchestrator.Recover(ctx); err != nil {
		return fmt.Errorf("recover jobs: %w", err)
	}
	list, err := app.devices.Scan(ctx)
	if err != nil {
		return fmt.Errorf("device scan: %w", err)
	}
	app.logger.Info(ctx, "devices discovered", "count", len(list))
	return nil
}

func (app *App) Close() {
	if app.sqlDB != nil {
		app.sqlDB.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.gateway, app.orchestrator, app.devices, app.certificates)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := health.NewServer(app.config.EndpointAddrHTTP, app.db, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a signal arrives, then stops running
// jobs and closes storage.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHealthServer(ctx, cancelFunc)
	}()

	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.orchestrator.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "jobs did not stop in time", "error", err)
	}
	app.Close()
	app.logger.Info(shutdownCtx, "Stopped")
}
