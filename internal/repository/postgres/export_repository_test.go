package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

var exportColumns = []string{"id", "user_id", "status", "location", "record_count", "error_message", "created_at", "updated_at", "completed_at"}

func TestExportRepository_CreateDefaultsToPending(t *testing.T) {
	db, mock := setupMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO exports`)).
		WithArgs(int64(2), "pending", "", 0, "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	export := &domain.Export{UserRef: 2}
	id, err := NewExportRepository(db).Create(context.Background(), export)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, domain.ExportStatusPending, export.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepository_Get(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewExportRepository(db)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM exports WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(exportColumns).
			AddRow(5, 2, "completed", "s3://bucket/key.json", 3, "", now, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM exports WHERE id = $1`)).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows(exportColumns))

	export, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.ExportStatusCompleted, export.Status)
	assert.Equal(t, 3, export.RecordCount)
	require.NotNil(t, export.CompletedAt)

	_, err = repo.Get(context.Background(), 6)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepository_ListByStatuses(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewExportRepository(db)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(exportColumns).
			AddRow(1, 2, "pending", "", 0, "", now, now, nil).
			AddRow(2, 2, "running", "", 0, "", now, now, nil))

	exports, err := repo.ListByStatuses(context.Background(), domain.ExportStatusPending, domain.ExportStatusRunning)
	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Nil(t, exports[0].CompletedAt)
	assert.Equal(t, domain.ExportStatusRunning, exports[1].Status)

	empty, err := repo.ListByStatuses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepository_StatusTransitions(t *testing.T) {
	db, mock := setupMock(t)
	repo := NewExportRepository(db)
	completedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := "upload failed"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE exports SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`)).
		WithArgs("failed", msg, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE exports SET status = $1, location = $2, record_count = $3`)).
		WithArgs("completed", "s3://bucket/key.json", 4, completedAt, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 5, domain.ExportStatusFailed, &msg))
	require.NoError(t, repo.MarkCompleted(context.Background(), 5, "s3://bucket/key.json", 4, completedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
