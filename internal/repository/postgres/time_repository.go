package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

const createTimesTable = `
CREATE TABLE IF NOT EXISTS times (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	track TEXT NOT NULL,
	duration_ms BIGINT NOT NULL CHECK (duration_ms > 0),
	recorded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_times_user_id ON times(user_id);
CREATE INDEX IF NOT EXISTS idx_times_track_duration ON times(track, duration_ms);
`

const selectTimes = `
SELECT t.id, t.user_id, u.user_id, u.username, t.track, t.duration_ms, t.recorded_at
FROM times t
JOIN users u ON u.id = t.user_id`

type TimeRepository struct {
	db *sql.DB
}

func NewTimeRepository(db *sql.DB) repository.TimeRepository {
	return &TimeRepository{db: db}
}

func (r *TimeRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTimesTable); err != nil {
		return fmt.Errorf("create times table: %w", err)
	}
	return nil
}

func (r *TimeRepository) Create(ctx context.Context, record *domain.Time) (int64, error) {
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO times (user_id, track, duration_ms, recorded_at)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		record.UserRef,
		string(record.Track),
		record.Duration.Milliseconds(),
		record.RecordedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert time: %w", err)
	}
	record.ID = id
	return id, nil
}

func (r *TimeRepository) ListByUser(ctx context.Context, userRef int64) ([]domain.Time, error) {
	return r.query(ctx, selectTimes+`
WHERE t.user_id = $1
ORDER BY t.recorded_at DESC, t.id DESC`, userRef)
}

func (r *TimeRepository) ListFastestByTrack(ctx context.Context, track domain.Track, limit int) ([]domain.Time, error) {
	return r.query(ctx, selectTimes+`
WHERE t.track = $1
ORDER BY t.duration_ms ASC, t.recorded_at ASC, t.id ASC
LIMIT $2`, string(track), limit)
}

func (r *TimeRepository) query(ctx context.Context, query string, args ...any) ([]domain.Time, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query times: %w", err)
	}
	defer rows.Close()

	var records []domain.Time
	for rows.Next() {
		var (
			record     domain.Time
			track      string
			durationMS int64
		)
		if err := rows.Scan(
			&record.ID,
			&record.UserRef,
			&record.UserID,
			&record.Username,
			&track,
			&durationMS,
			&record.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan time: %w", err)
		}
		record.Track = domain.Track(track)
		record.Duration = domain.LapTimeFromMillis(durationMS)
		records = append(records, record)
	}

	return records, rows.Err()
}
