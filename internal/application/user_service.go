package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	userDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/user"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// CreateUserRequest is the request DTO for registering a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest is the request DTO for a partial user update.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// UserDTO is the API response representation of a user.
type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService implements use cases for the user directory.
type UserService struct {
	repo   userDomain.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo userDomain.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// CreateUser registers a user with a unique email.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, u.Email(), 0); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", zap.Int64("user_id", u.ID()))
	result := toUserDTO(u)
	return &result, nil
}

// UpdateUser applies a partial update; a changed email must stay unique.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, req UpdateUserRequest) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Email != nil && *req.Email != u.Email() {
		if err := s.ensureEmailFree(ctx, *req.Email, userID); err != nil {
			return nil, err
		}
	}
	if err := u.Update(req.Name, req.Email); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", userID))
	result := toUserDTO(u)
	return &result, nil
}

// GetUser returns a single user.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", userID))
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, excludeID int64) error {
	taken, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return domain.NewConflictError("email already in use: " + email)
	}
	return nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}
