package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

const createExportsTable = `
CREATE TABLE IF NOT EXISTS exports (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	record_count INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ NULL
);
CREATE INDEX IF NOT EXISTS idx_exports_user_id ON exports(user_id);
`

const selectExports = `
SELECT id, user_id, status, location, record_count, error_message, created_at, updated_at, completed_at
FROM exports`

type ExportRepository struct {
	db *sql.DB
}

func NewExportRepository(db *sql.DB) repository.ExportRepository {
	return &ExportRepository{db: db}
}

func (r *ExportRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createExportsTable); err != nil {
		return fmt.Errorf("create exports table: %w", err)
	}
	return nil
}

func (r *ExportRepository) Create(ctx context.Context, export *domain.Export) (int64, error) {
	now := time.Now().UTC()
	export.CreatedAt = now
	export.UpdatedAt = now
	if export.Status == "" {
		export.Status = domain.ExportStatusPending
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO exports (user_id, status, location, record_count, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		export.UserRef,
		string(export.Status),
		export.Location,
		export.RecordCount,
		export.ErrorMessage,
		export.CreatedAt,
		export.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert export: %w", err)
	}
	export.ID = id
	return id, nil
}

func (r *ExportRepository) Get(ctx context.Context, id int64) (*domain.Export, error) {
	return scanExport(r.db.QueryRowContext(ctx, selectExports+` WHERE id = $1`, id))
}

func (r *ExportRepository) ListByUser(ctx context.Context, userRef int64) ([]domain.Export, error) {
	return r.list(ctx, selectExports+`
WHERE user_id = $1
ORDER BY id DESC`, userRef)
}

func (r *ExportRepository) ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.Export, error) {
	if len(statuses) == 0 {
		return []domain.Export{}, nil
	}
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	return r.list(ctx, selectExports+`
WHERE status = ANY($1)
ORDER BY id ASC`, pq.Array(values))
}

func (r *ExportRepository) UpdateStatus(ctx context.Context, id int64, status domain.ExportStatus, errorMessage *string) error {
	msg := ""
	if errorMessage != nil {
		msg = *errorMessage
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE exports
SET status = $1, error_message = $2, updated_at = $3
WHERE id = $4`,
		string(status),
		msg,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update export status: %w", err)
	}
	return nil
}

func (r *ExportRepository) MarkCompleted(ctx context.Context, id int64, location string, recordCount int, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE exports
SET status = $1, location = $2, record_count = $3, error_message = '', completed_at = $4, updated_at = $5
WHERE id = $6`,
		string(domain.ExportStatusCompleted),
		location,
		recordCount,
		completedAt.UTC(),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark export completed: %w", err)
	}
	return nil
}

func (r *ExportRepository) list(ctx context.Context, query string, args ...any) ([]domain.Export, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var exports []domain.Export
	for rows.Next() {
		export, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		exports = append(exports, *export)
	}
	return exports, rows.Err()
}

func scanExport(scanner interface {
	Scan(dest ...any) error
}) (*domain.Export, error) {
	var (
		export      domain.Export
		status      string
		completedAt sql.NullTime
	)
	if err := scanner.Scan(
		&export.ID,
		&export.UserRef,
		&status,
		&export.Location,
		&export.RecordCount,
		&export.ErrorMessage,
		&export.CreatedAt,
		&export.UpdatedAt,
		&completedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan export: %w", err)
	}

	export.Status = domain.ExportStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		export.CompletedAt = &t
	}
	return &export, nil
}
