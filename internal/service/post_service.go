package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"instawinx/internal/models"
	"instawinx/internal/notifications"
	"instawinx/internal/observability"
	"instawinx/internal/repository"
	"instawinx/internal/storage"
	"instawinx/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// uploadTimeLayout renders the server clock into the stored image name.
const uploadTimeLayout = "20060102150405"

type PostService struct {
	postRepo repository.PostRepository
	store    storage.Store
	notifier *notifications.Notifier
	now      func() time.Time
}

type CreatePostInput struct {
	UserID      uint
	Filename    string
	File        io.Reader
	Size        int64
	ContentType string
	Caption     string
}

func NewPostService(postRepo repository.PostRepository, store storage.Store, notifier *notifications.Notifier) *PostService {
	return &PostService{
		postRepo: postRepo,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// ImageKey names the stored image. Two uploads by one user in the same second share a key.
func ImageKey(userID uint, at time.Time) string {
	return fmt.Sprintf("%d_%s.jpg", userID, at.Format(uploadTimeLayout))
}

// CreatePost records the post and stores its image. The row is only
// committed once the upload succeeded, and a failed insert uploads nothing.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.CreatePost",
		attribute.Int("user.id", int(in.UserID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.File == nil || in.Filename == "" {
		return nil, models.ErrNoImage
	}

	key := ImageKey(in.UserID, s.now())
	contentType := in.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	post = &models.Post{
		UserID:  in.UserID,
		Image:   key,
		Caption: validation.CleanText(in.Caption),
	}
	upload := func(ctx context.Context) error {
		if err := s.store.Put(ctx, key, in.File, in.Size, contentType); err != nil {
			return models.NewInternalError(fmt.Errorf("store image: %w", err))
		}
		return nil
	}
	if err := s.postRepo.Create(ctx, post, upload); err != nil {
		return nil, err
	}

	observability.PostsCreated.Inc()
	return post, nil
}

// ToggleLike flips userID's like on postID. A lost insert race is retried once,
// which then observes the committed like and removes it.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (res *repository.LikeResult, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.ToggleLike",
		attribute.Int("post.id", int(postID)))
	defer func() { observability.EndSpan(span, err) }()

	res, err = s.postRepo.ToggleLike(ctx, postID, userID)
	if errors.Is(err, repository.ErrConflict) {
		res, err = s.postRepo.ToggleLike(ctx, postID, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, models.NewInternalError(err)
		}
		return nil, err
	}

	action := "unliked"
	if res.Liked {
		action = "liked"
		if err := s.notifier.Notify(ctx, res.PostOwnerID, userID, notifications.EventPostLiked, postID); err != nil {
			span.RecordError(err)
		}
	}
	observability.LikesToggled.WithLabelValues(action).Inc()
	return res, nil
}
