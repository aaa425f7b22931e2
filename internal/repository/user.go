// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"strings"

	"inkspace/internal/cache"
	"inkspace/internal/models"

	"gorm.io/gorm"
)

// UserRepository reads identity records. The engagement core never
// mutates users; Create exists for seeding and tests.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return wrapNotFound(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.NewNotFoundError("User", username)
	}

	var user models.User
	err := cache.Aside(ctx, cache.UsernameKey(username), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
			return wrapNotFound(err, "User", username)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return models.NewConflictError("username already taken", err)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID, user.Username)
	return nil
}
