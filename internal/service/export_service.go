package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

// ExportService coordinates export job bookkeeping backed by repositories.
type ExportService interface {
	CreateExport(ctx context.Context, userID string) (*domain.Export, error)
	GetExport(ctx context.Context, id int64) (*domain.Export, error)
	ListExports(ctx context.Context, userID string) ([]domain.Export, error)
	ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.Export, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ExportStatus, errMsg *string) error
	MarkCompleted(ctx context.Context, id int64, location string, recordCount int) error
	BuildDocument(ctx context.Context, export *domain.Export) (*domain.ExportDocument, error)
}

type exportService struct {
	users   repository.UserRepository
	times   repository.TimeRepository
	exports repository.ExportRepository
	now     func() time.Time
}

func NewExportService(users repository.UserRepository, times repository.TimeRepository, exports repository.ExportRepository) ExportService {
	return &exportService{
		users:   users,
		times:   times,
		exports: exports,
		now:     time.Now,
	}
}

func (s *exportService) CreateExport(ctx context.Context, userID string) (*domain.Export, error) {
	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.UserNotFoundByUserID(userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	export := &domain.Export{
		UserRef: user.ID,
		Status:  domain.ExportStatusPending,
	}
	if _, err := s.exports.Create(ctx, export); err != nil {
		return nil, fmt.Errorf("create export: %w", err)
	}
	return export, nil
}

func (s *exportService) GetExport(ctx context.Context, id int64) (*domain.Export, error) {
	export, err := s.exports.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrExportNotFound
		}
		return nil, fmt.Errorf("get export: %w", err)
	}
	return export, nil
}

func (s *exportService) ListExports(ctx context.Context, userID string) ([]domain.Export, error) {
	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.UserNotFoundByUserID(userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	exports, err := s.exports.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	if exports == nil {
		exports = []domain.Export{}
	}
	return exports, nil
}

func (s *exportService) ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.Export, error) {
	return s.exports.ListByStatuses(ctx, statuses...)
}

func (s *exportService) UpdateStatus(ctx context.Context, id int64, status domain.ExportStatus, errMsg *string) error {
	return s.exports.UpdateStatus(ctx, id, status, errMsg)
}

func (s *exportService) MarkCompleted(ctx context.Context, id int64, location string, recordCount int) error {
	return s.exports.MarkCompleted(ctx, id, location, recordCount, s.now().UTC())
}

// BuildDocument snapshots the owner's times, newest first.
func (s *exportService) BuildDocument(ctx context.Context, export *domain.Export) (*domain.ExportDocument, error) {
	user, err := s.users.GetByID(ctx, export.UserRef)
	if err != nil {
		return nil, fmt.Errorf("load export owner: %w", err)
	}
	records, err := s.times.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load times: %w", err)
	}

	doc := &domain.ExportDocument{
		UserID:     user.UserID,
		Username:   user.Username,
		ExportedAt: s.now().UTC(),
		Times:      make([]domain.ExportedRecord, 0, len(records)),
	}
	for _, record := range records {
		doc.Times = append(doc.Times, domain.ExportedRecord{
			ID:         record.ID,
			Track:      record.Track,
			Time:       record.Duration,
			RecordedAt: record.RecordedAt,
		})
	}
	return doc, nil
}
