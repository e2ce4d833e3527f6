package repository

import (
	"context"
	"errors"

	"instawinx/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friendship data operations
type FriendRepository interface {
	// Transaction runs fn with a repository bound to a single database transaction.
	Transaction(ctx context.Context, fn func(repo FriendRepository) error) error
	GetBetween(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	Create(ctx context.Context, friendship *models.Friendship) error
	UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// pairScope matches the friendship between two users regardless of who requested it.
// Every symmetric lookup goes through here.
func pairScope(userID1, userID2 uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userID1, userID2, userID2, userID1)
	}
}

// counterparts returns subqueries selecting the users userID has a friendship with:
// outgoing where userID requested, incoming where userID was asked.
// With no statuses, records of any status count.
func counterparts(db *gorm.DB, userID uint, statuses ...models.FriendshipStatus) (outgoing, incoming *gorm.DB) {
	outgoing = db.Model(&models.Friendship{}).Select("user2_id").Where("user1_id = ?", userID)
	incoming = db.Model(&models.Friendship{}).Select("user1_id").Where("user2_id = ?", userID)
	if len(statuses) > 0 {
		outgoing = outgoing.Where("status IN ?", statuses)
		incoming = incoming.Where("status IN ?", statuses)
	}
	return outgoing, incoming
}

func (r *friendRepository) Transaction(ctx context.Context, fn func(repo FriendRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&friendRepository{db: tx})
	})
}

// GetBetween returns nil, nil when the users have no friendship record.
func (r *friendRepository) GetBetween(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Scopes(pairScope(userID1, userID2)).
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if isUniqueConstraintError(err) {
			return conflict(err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", friendshipID).
		Update("status", status).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
