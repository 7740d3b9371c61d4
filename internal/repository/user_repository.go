package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	userDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/user"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:512;not null;uniqueIndex:uq_users_email"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string { return "users" }

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by id.
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUserDomain(&model), nil
}

// FindAll returns every user ordered by id.
func (r *GormUserRepository) FindAll(ctx context.Context) ([]*userDomain.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*userDomain.User, len(models))
	for i := range models {
		users[i] = toUserDomain(&models[i])
	}
	return users, nil
}

// ExistsByEmail reports whether a user other than excludeID already uses email.
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// Save persists a new user and assigns its id.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("email already in use: " + u.Email())
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	u.AssignID(model.ID)
	return nil
}

// Update persists name and email changes.
func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", u.ID()).
		Updates(map[string]interface{}{
			"name":       u.Name(),
			"email":      u.Email(),
			"updated_at": u.UpdatedAt(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("email already in use: " + u.Email())
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", strconv.FormatInt(u.ID(), 10))
	}
	return nil
}

// Delete removes a user.
func (r *GormUserRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
	}
	return nil
}

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func toUserDomain(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(m.ID, m.Name, m.Email, m.CreatedAt, m.UpdatedAt)
}
