package repository

import (
	"context"

	"track-times/internal/domain"
)

// TimeRepository persists time records. Listings join the owning user so UserID and
// Username are populated.
type TimeRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, record *domain.Time) (int64, error)
	ListByUser(ctx context.Context, userRef int64) ([]domain.Time, error)
	ListFastestByTrack(ctx context.Context, track domain.Track, limit int) ([]domain.Time, error)
}
