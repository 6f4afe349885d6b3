package devices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, d models.Device) error {
	query :=
		`INSERT INTO devices (id, serial, model, path, capacity, sector_size, connected,
		                      supports_secure_erase, supports_crypto_erase, last_seen)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (id) DO UPDATE SET
		     path = EXCLUDED.path,
		     capacity = EXCLUDED.capacity,
		     sector_size = EXCLUDED.sector_size,
		     connected = EXCLUDED.connected,
		     supports_secure_erase = EXCLUDED.supports_secure_erase,
		     supports_crypto_erase = EXCLUDED.supports_crypto_erase,
		     last_seen = now()
		 `

	_, err := r.db.ExecContext(ctx, query, d.ID, d.Serial, d.Model, d.Path, d.Capacity,
		d.SectorSize, d.Connected, d.SupportsSecureErase, d.SupportsCryptoErase)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectDevice = `SELECT id, serial, model, path, capacity, sector_size, connected,
		        supports_secure_erase, supports_crypto_erase
		 FROM devices`

type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(s scanner) (models.Device, error) {
	var d models.Device
	err := s.Scan(&d.ID, &d.Serial, &d.Model, &d.Path, &d.Capacity, &d.SectorSize,
		&d.Connected, &d.SupportsSecureErase, &d.SupportsCryptoErase)
	return d, err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Device, error) {
	d, err := scanDevice(r.db.QueryRowContext(ctx, selectDevice+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, selectDevice+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
