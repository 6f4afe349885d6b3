package devices

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var deviceCols = []string{"id", "serial", "model", "path", "capacity", "sector_size", "connected",
	"supports_secure_erase", "supports_crypto_erase"}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	d := models.Device{ID: "d1", Serial: "S", Model: "M", Path: "/dev/sdb", Capacity: 1024, SectorSize: 512, Connected: true}
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+devices.*ON\s+CONFLICT\s+\(id\)\s+DO\s+UPDATE`).
		WithArgs("d1", "S", "M", "/dev/sdb", int64(1024), 512, true, false, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Upsert(context.Background(), d))

	mock.ExpectExec(`INSERT`).WillReturnError(errors.New("down"))
	err := repo.Upsert(context.Background(), d)
	assert.ErrorContains(t, err, "db error: down")
}

func TestGet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT .* FROM devices WHERE id = \$1$`).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(deviceCols).AddRow("d1", "S", "M", "/dev/sdb", 1024, 512, true, true, false))
	got, err := repo.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, &models.Device{ID: "d1", Serial: "S", Model: "M", Path: "/dev/sdb", Capacity: 1024,
		SectorSize: 512, Connected: true, SupportsSecureErase: true}, got)

	mock.ExpectQuery(`FROM devices WHERE id`).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM devices ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(deviceCols).
			AddRow("a", "S1", "M", "/a", 1024, 512, true, false, false).
			AddRow("b", "S2", "M", "/b", 2048, 512, false, false, true))
	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].SupportsCryptoErase)
	require.NoError(t, mock.ExpectationsWereMet())
}
