package service

import (
	"context"
	"time"

	"track-times/internal/domain"
	"track-times/internal/security"
)

type mockUserRepo struct {
	GetByUsernameFunc  func(ctx context.Context, username string) (*domain.User, error)
	GetByUserIDFunc    func(ctx context.Context, userID string) (*domain.User, error)
	GetByIDFunc        func(ctx context.Context, id int64) (*domain.User, error)
	CreateFunc         func(ctx context.Context, user *domain.User) (int64, error)
	DeleteByUserIDFunc func(ctx context.Context, userID string) error
}

func (m *mockUserRepo) Init(context.Context) error { return nil }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	return m.CreateFunc(ctx, user)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	return m.GetByUserIDFunc(ctx, userID)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockUserRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.DeleteByUserIDFunc(ctx, userID)
}

type mockTimeRepo struct {
	CreateFunc             func(ctx context.Context, record *domain.Time) (int64, error)
	ListByUserFunc         func(ctx context.Context, userRef int64) ([]domain.Time, error)
	ListFastestByTrackFunc func(ctx context.Context, track domain.Track, limit int) ([]domain.Time, error)
}

func (m *mockTimeRepo) Init(context.Context) error { return nil }

func (m *mockTimeRepo) Create(ctx context.Context, record *domain.Time) (int64, error) {
	return m.CreateFunc(ctx, record)
}
func (m *mockTimeRepo) ListByUser(ctx context.Context, userRef int64) ([]domain.Time, error) {
	return m.ListByUserFunc(ctx, userRef)
}
func (m *mockTimeRepo) ListFastestByTrack(ctx context.Context, track domain.Track, limit int) ([]domain.Time, error) {
	return m.ListFastestByTrackFunc(ctx, track, limit)
}

type mockExportRepo struct {
	CreateFunc         func(ctx context.Context, export *domain.Export) (int64, error)
	GetFunc            func(ctx context.Context, id int64) (*domain.Export, error)
	ListByUserFunc     func(ctx context.Context, userRef int64) ([]domain.Export, error)
	ListByStatusesFunc func(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.Export, error)
	UpdateStatusFunc   func(ctx context.Context, id int64, status domain.ExportStatus, errorMessage *string) error
	MarkCompletedFunc  func(ctx context.Context, id int64, location string, recordCount int, completedAt time.Time) error
}

func (m *mockExportRepo) Init(context.Context) error { return nil }

func (m *mockExportRepo) Create(ctx context.Context, export *domain.Export) (int64, error) {
	return m.CreateFunc(ctx, export)
}
func (m *mockExportRepo) Get(ctx context.Context, id int64) (*domain.Export, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockExportRepo) ListByUser(ctx context.Context, userRef int64) ([]domain.Export, error) {
	return m.ListByUserFunc(ctx, userRef)
}
func (m *mockExportRepo) ListByStatuses(ctx context.Context, statuses ...domain.ExportStatus) ([]domain.Export, error) {
	return m.ListByStatusesFunc(ctx, statuses...)
}
func (m *mockExportRepo) UpdateStatus(ctx context.Context, id int64, status domain.ExportStatus, errorMessage *string) error {
	return m.UpdateStatusFunc(ctx, id, status, errorMessage)
}
func (m *mockExportRepo) MarkCompleted(ctx context.Context, id int64, location string, recordCount int, completedAt time.Time) error {
	return m.MarkCompletedFunc(ctx, id, location, recordCount, completedAt)
}

// fakeHasher prefixes the plaintext so tests can assert on the stored value.
type fakeHasher struct {
	err error
}

func (h fakeHasher) Hash(plaintext string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plaintext, nil
}

func (h fakeHasher) Compare(hash, plaintext string) error {
	if hash != "hashed:"+plaintext {
		return security.ErrMismatchedPassword
	}
	return nil
}
