package service

import (
	"context"

	"instawinx/internal/models"
	"instawinx/internal/notifications"
	"instawinx/internal/observability"
	"instawinx/internal/repository"
	"instawinx/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	notifier    *notifications.Notifier
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

func NewCommentService(commentRepo repository.CommentRepository, notifier *notifications.Notifier) *CommentService {
	return &CommentService{commentRepo: commentRepo, notifier: notifier}
}

// commentPreviewRunes bounds the excerpt sent with comment notifications.
const commentPreviewRunes = 80

// CreateComment appends a comment to a post. Blank text is rejected with
// models.ErrEmptyComment; anything else is stored as typed, trimmed.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (view *models.CommentView, err error) {
	ctx, span := observability.StartSpan(ctx, "CommentService.CreateComment")
	defer func() { observability.EndSpan(span, err) }()

	text := validation.CleanText(in.Text)
	if text == "" {
		return nil, models.ErrEmptyComment
	}

	comment := &models.Comment{
		PostID: in.PostID,
		UserID: in.UserID,
		Text:   text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsCreated.Inc()
	preview := validation.PreviewText(text, commentPreviewRunes)
	if err := s.notifier.NotifyWithPreview(ctx, comment.Post.UserID, in.UserID, notifications.EventPostCommented, in.PostID, preview); err != nil {
		span.RecordError(err)
	}

	v := comment.View()
	return &v, nil
}
