package repository

import (
	"context"
	"errors"

	"instawinx/internal/cache"
	"instawinx/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Suggestions(ctx context.Context, userID uint, limit int) ([]models.User, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user; a taken username yields models.ErrUsernameTaken.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ProfilePic == "" {
		user.ProfilePic = models.DefaultProfilePic
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.ErrUsernameTaken
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID is served through the user cache. Cached copies omit the password hash.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Suggestions lists up to limit users that have no friendship record of any status with userID.
func (r *userRepository) Suggestions(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	db := r.db.WithContext(ctx)
	outgoing, incoming := counterparts(db, userID)

	var users []models.User
	if err := db.
		Where("id <> ?", userID).
		Where("id NOT IN (?)", outgoing).
		Where("id NOT IN (?)", incoming).
		Order("id").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
