package certificates

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

func sampleCert(t *testing.T) (*models.Certificate, []byte) {
	t.Helper()
	body := models.CertificateBody{JobID: "j1", DeviceID: "d1", Method: "zero-fill",
		Compliance: models.ComplianceClear, IssuedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return &models.Certificate{ID: "abc", Body: body, Signature: []byte("sig")}, raw
}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	cert, raw := sampleCert(t)
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+certificates`).
		WithArgs("abc", "j1", "d1", raw, []byte("sig"), cert.Body.IssuedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), cert, raw))

	mock.ExpectExec(`INSERT\s+INTO\s+certificates`).WillReturnError(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, repo.Create(context.Background(), cert, raw), common.ErrorAlreadyExists)
}

func TestPostgresGet(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	_, raw := sampleCert(t)
	q := `(?s)FROM certificates\s+WHERE job_id = \$1 AND device_id = \$2`
	mock.ExpectQuery(q).WithArgs("j1", "d1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "signature"}).AddRow("abc", raw, []byte("sig")))

	got, gotRaw, err := repo.Get(context.Background(), "j1", "d1")
	require.NoError(t, err)
	assert.Equal(t, raw, gotRaw)
	assert.Equal(t, "zero-fill", got.Body.Method)

	mock.ExpectQuery(q).WithArgs("j1", "d2").WillReturnRows(sqlmock.NewRows([]string{"id", "body", "signature"}))
	_, _, err = repo.Get(context.Background(), "j1", "d2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	cert, raw := sampleCert(t)

	require.NoError(t, r.Create(ctx, cert, raw))
	assert.ErrorIs(t, r.Create(ctx, cert, raw), common.ErrorAlreadyExists)

	got, gotRaw, err := r.Get(ctx, "j1", "d1")
	require.NoError(t, err)
	assert.Equal(t, cert.ID, got.ID)
	assert.Equal(t, raw, gotRaw)

	r.Tamper("j1", "d1", []byte("{}"))
	_, gotRaw, _ = r.Get(ctx, "j1", "d1")
	assert.Equal(t, []byte("{}"), gotRaw)

	list, err := r.ListForJob(ctx, "j1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, _, err = r.Get(ctx, "j2", "d1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
