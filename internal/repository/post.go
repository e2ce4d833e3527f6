package repository

import (
	"context"
	"errors"

	"instawinx/internal/models"

	"gorm.io/gorm"
)

// LikeResult is the state of a post right after a like toggle.
type LikeResult struct {
	Liked       bool
	LikesCount  int64
	PostOwnerID uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// Create inserts post and then runs afterInsert inside the same transaction.
	// An afterInsert error rolls the row back and is returned unchanged.
	Create(ctx context.Context, post *models.Post, afterInsert func(context.Context) error) error
	Feed(ctx context.Context, viewerID uint) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID, viewerID uint) ([]*models.Post, error)
	ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, afterInsert func(context.Context) error) error {
	var hookErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		if afterInsert != nil {
			hookErr = afterInsert(ctx)
		}
		return hookErr
	})
	if hookErr != nil {
		post.ID = 0
		return hookErr
	}
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Feed returns the posts of viewerID and of everyone with an accepted friendship with them,
// newest first, with authors, like data and comments (oldest first) loaded.
func (r *postRepository) Feed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	db := r.db.WithContext(ctx)
	outgoing, incoming := counterparts(db, viewerID, models.FriendshipStatusAccepted)

	var posts []*models.Post
	err := applyPostDetails(db, viewerID).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comment_time ASC, id ASC")
		}).
		Preload("Comments.User").
		Where("posts.user_id = ? OR posts.user_id IN (?) OR posts.user_id IN (?)", viewerID, outgoing, incoming).
		Order("posts.post_time DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListByUser returns userID's posts, newest first, with like data relative to viewerID.
func (r *postRepository) ListByUser(ctx context.Context, userID, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), viewerID).
		Where("posts.user_id = ?", userID).
		Order("posts.post_time DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch the like count and liked status in a single query.
func applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Select("posts.*, "+
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count, "+
		"EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS user_liked",
		viewerID)
}

// ToggleLike deletes the viewer's like when present and inserts it otherwise,
// then counts likes, all in one transaction.
// A concurrent insert surfacing as a unique violation is reported as ErrConflict.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error) {
	result := &LikeResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrPostNotFound
			}
			return err
		}
		result.PostOwnerID = post.UserID

		deleted := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			result.Liked = true
		}

		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&result.LikesCount).Error
	})
	if err != nil {
		var appErr *models.AppError
		switch {
		case errors.As(err, &appErr):
			return nil, err
		case isUniqueConstraintError(err):
			return nil, conflict(err)
		default:
			return nil, models.NewInternalError(err)
		}
	}
	return result, nil
}
