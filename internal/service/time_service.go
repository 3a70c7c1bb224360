package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// TimeService records and ranks times.
type TimeService interface {
	RecordTime(ctx context.Context, req domain.TimeRequest) (*domain.Time, error)
	ListUserTimes(ctx context.Context, userID string) ([]domain.Time, error)
	Leaderboard(ctx context.Context, track domain.Track, limit int) ([]domain.Time, error)
}

type timeService struct {
	users    repository.UserRepository
	times    repository.TimeRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewTimeService(users repository.UserRepository, times repository.TimeRepository) TimeService {
	return &timeService{
		users:    users,
		times:    times,
		validate: domain.NewValidator(),
		now:      time.Now,
	}
}

func (s *timeService) RecordTime(ctx context.Context, req domain.TimeRequest) (*domain.Time, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.AsValidationError(err)
	}

	user, err := s.lookupUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	record := &domain.Time{
		UserRef:    user.ID,
		UserID:     user.UserID,
		Username:   user.Username,
		Track:      req.Track,
		Duration:   req.Time,
		RecordedAt: s.now().UTC(),
	}
	if _, err := s.times.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record time: %w", err)
	}
	return record, nil
}

func (s *timeService) ListUserTimes(ctx context.Context, userID string) ([]domain.Time, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := s.times.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list times: %w", err)
	}
	if records == nil {
		records = []domain.Time{}
	}
	return records, nil
}

func (s *timeService) Leaderboard(ctx context.Context, track domain.Track, limit int) ([]domain.Time, error) {
	if !track.Valid() {
		return nil, &domain.ValidationError{Field: "track", Reason: fmt.Sprintf("unknown track %q", string(track))}
	}
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardLimit
	case limit > MaxLeaderboardLimit:
		limit = MaxLeaderboardLimit
	}

	records, err := s.times.ListFastestByTrack(ctx, track, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if records == nil {
		records = []domain.Time{}
	}
	return records, nil
}

func (s *timeService) lookupUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.UserNotFoundByUserID(userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
