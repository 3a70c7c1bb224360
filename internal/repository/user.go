package repository

import (
	"context"

	"track-times/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUserID(ctx context.Context, userID string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	DeleteByUserID(ctx context.Context, userID string) error
}
