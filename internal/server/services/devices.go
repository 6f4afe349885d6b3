package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/devices"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/repomanager"
)

// DeviceService keeps the device table in step with what the provider
// reports.
type DeviceService struct {
	db          dbx.Transactor
	repomanager repomanager.RepositoryManager
	provider    devices.Provider
	logger      logging.Logger
}

func NewDeviceService(db dbx.Transactor, m repomanager.RepositoryManager, p devices.Provider, logger logging.Logger) *DeviceService {
	return &DeviceService{db: db, repomanager: m, provider: p, logger: logger.With("module", "devices")}
}

// Scan asks the provider for attached devices and records them. Devices
// known from earlier scans but no longer reported are marked disconnected.
func (s *DeviceService) Scan(ctx context.Context) ([]models.Device, error) {
	found, err := s.provider.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	repo := s.repomanager.Devices(s.db.Conn())
	known, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	present := make(map[string]struct{}, len(found))
	for _, d := range found {
		present[d.ID] = struct{}{}
		if err := repo.Upsert(ctx, d); err != nil {
			return nil, fmt.Errorf("record device %s: %w", d.ID, err)
		}
	}
	for _, d := range known {
		if _, ok := present[d.ID]; ok || !d.Connected {
			continue
		}
		d.Connected = false
		if err := repo.Upsert(ctx, d); err != nil {
			return nil, fmt.Errorf("record device %s: %w", d.ID, err)
		}
	}

	s.logger.Info(ctx, "device scan finished", "found", len(found), "known", len(known))
	return repo.List(ctx)
}

// List returns devices from the last scan.
func (s *DeviceService) List(ctx context.Context) ([]models.Device, error) {
	return s.repomanager.Devices(s.db.Conn()).List(ctx)
}
