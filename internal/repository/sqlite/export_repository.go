package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

const createExportsTable = `
CREATE TABLE IF NOT EXISTS exports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	status TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	record_count INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	completed_at DATETIME NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
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

	res, err := r.db.ExecContext(ctx, `
INSERT INTO exports (user_id, status, location, record_count, error_message, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		export.UserRef,
		string(export.Status),
		export.Location,
		export.RecordCount,
		export.ErrorMessage,
		export.CreatedAt,
		export.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert export: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("export last insert id: %w", err)
	}
	export.ID = id
	return id, nil
}

func (r *ExportRepository) Get(ctx context.Context, id int64) (*domain.Export, error) {
	row := r.db.QueryRowContext(ctx, selectExports+`
WHERE id=?`,
		id,
	)
	return scanExport(row)
}

func (r *ExportRepository) ListByUser(ctx context.Context, userRef int64) ([]domain.Export, error) {
	return r.list(ctx, selectExports+`
WHERE user_id=?
ORDER BY id DESC`, userRef)
}

func (r *ExportRepository) ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.Export, error) {
	if len(statuses) == 0 {
		return []domain.Export{}, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = "?"
		args[i] = string(status)
	}

	return r.list(ctx, fmt.Sprintf(selectExports+`
WHERE status IN (%s)
ORDER BY id ASC`, strings.Join(placeholders, ",")), args...)
}

func (r *ExportRepository) UpdateStatus(ctx context.Context, id int64, status domain.ExportStatus, errorMessage *string) error {
	msg := ""
	if errorMessage != nil {
		msg = *errorMessage
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE exports
SET status=?, error_message=?, updated_at=?
WHERE id=?`,
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
SET status=?, location=?, record_count=?, error_message='', completed_at=?, updated_at=?
WHERE id=?`,
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
