package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"track-times/internal/domain"
	"track-times/internal/repository"
	"track-times/internal/security"
)

// UserService describes user lifecycle operations.
type UserService interface {
	CreateUser(ctx context.Context, dto domain.UserDTO) (*domain.User, error)
	FindUserByUserID(ctx context.Context, userID string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ConvertToUserDTO(user *domain.User) domain.UserDTO
	ConvertToUserEntity(dto domain.UserDTO) (*domain.User, error)
}

type userService struct {
	users    repository.UserRepository
	hasher   security.PasswordHasher
	validate *validator.Validate
}

func NewUserService(users repository.UserRepository, hasher security.PasswordHasher) UserService {
	return &userService{
		users:    users,
		hasher:   hasher,
		validate: domain.NewValidator(),
	}
}

func (s *userService) CreateUser(ctx context.Context, dto domain.UserDTO) (*domain.User, error) {
	dto.Username = strings.TrimSpace(dto.Username)
	dto.UserID = strings.TrimSpace(dto.UserID)
	if err := s.validate.Struct(dto); err != nil {
		return nil, domain.AsValidationError(err)
	}

	// The UNIQUE constraint decides; this lookup only skips hashing for obvious duplicates.
	if _, err := s.users.GetByUsername(ctx, dto.Username); err == nil {
		return nil, &domain.UsernameTakenError{Username: dto.Username}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	user, err := s.ConvertToUserEntity(dto)
	if err != nil {
		return nil, err
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		var cerr *repository.ConstraintError
		if errors.As(err, &cerr) {
			switch cerr.Field {
			case "username":
				return nil, &domain.UsernameTakenError{Username: dto.Username}
			case "user_id":
				return nil, &domain.UserIDTakenError{UserID: user.UserID}
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) FindUserByUserID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.UserNotFoundByUserID(userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.hasher.Compare(user.EncryptedPassword, password); err != nil {
		if errors.Is(err, security.ErrMismatchedPassword) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.DeleteByUserID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.UserNotFoundByUserID(userID)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ConvertToUserDTO copies every scalar field, the stored hash included.
func (s *userService) ConvertToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:                user.ID,
		UserID:            user.UserID,
		Username:          user.Username,
		EncryptedPassword: user.EncryptedPassword,
	}
}

// ConvertToUserEntity hashes dto.Password into EncryptedPassword.
func (s *userService) ConvertToUserEntity(dto domain.UserDTO) (*domain.User, error) {
	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{
		ID:                dto.ID,
		UserID:            dto.UserID,
		Username:          dto.Username,
		EncryptedPassword: hash,
	}, nil
}
