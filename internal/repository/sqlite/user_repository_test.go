package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track-times/internal/domain"
	"track-times/internal/repository"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	user := &domain.User{UserID: "u-1", Username: "bob", EncryptedPassword: "h1"}
	id, err := s.users.Create(ctx, user)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byName, err := s.users.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
	assert.Equal(t, "u-1", byName.UserID)
	assert.Equal(t, "h1", byName.EncryptedPassword)

	byUserID, err := s.users.GetByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "bob", byUserID.Username)

	byID, err := s.users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "u-1", byID.UserID)
}

func TestUserRepository_NotFound(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()

	_, err := s.users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.users.GetByUserID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.users.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.users.DeleteByUserID(ctx, "missing"), repository.ErrNotFound)
}

func TestUserRepository_UniqueViolations(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()
	createUser(t, s.users, "u-1", "bob")

	tests := []struct {
		name  string
		user  domain.User
		field string
	}{
		{"duplicate username", domain.User{UserID: "u-2", Username: "bob", EncryptedPassword: "x"}, "username"},
		{"duplicate user id", domain.User{UserID: "u-1", Username: "alice", EncryptedPassword: "x"}, "user_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := tt.user
			_, err := s.users.Create(ctx, &user)
			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrDuplicate)

			var cerr *repository.ConstraintError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()
	user := createUser(t, s.users, "u-1", "bob")
	other := createUser(t, s.users, "u-2", "alice")

	_, err := s.times.Create(ctx, &domain.Time{UserRef: user.ID, Track: domain.TrackSprint, Duration: domain.LapTimeFromMillis(12_000)})
	require.NoError(t, err)
	_, err = s.times.Create(ctx, &domain.Time{UserRef: other.ID, Track: domain.TrackSprint, Duration: domain.LapTimeFromMillis(11_000)})
	require.NoError(t, err)
	_, err = s.exports.Create(ctx, &domain.Export{UserRef: user.ID})
	require.NoError(t, err)

	require.NoError(t, s.users.DeleteByUserID(ctx, "u-1"))

	_, err = s.users.GetByUserID(ctx, "u-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	times, err := s.times.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, times)

	exports, err := s.exports.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, exports)

	remaining, err := s.times.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestConstraintField(t *testing.T) {
	assert.Equal(t, "username", constraintField("constraint failed: UNIQUE constraint failed: users.username (2067)"))
	assert.Equal(t, "user_id", constraintField("UNIQUE constraint failed: users.user_id"))
	assert.Equal(t, "", constraintField("FOREIGN KEY constraint failed"))
}
