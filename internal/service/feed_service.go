package service

import (
	"context"
	"time"

	"instawinx/internal/models"
	"instawinx/internal/observability"
	"instawinx/internal/repository"
)

// SuggestionLimit caps the "people you may know" list on the feed.
const SuggestionLimit = 5

// PostView is a post as rendered on the feed and on profiles.
type PostView struct {
	ID         uint                 `json:"id"`
	Image      string               `json:"image"`
	Caption    string               `json:"caption"`
	PostTime   time.Time            `json:"post_time"`
	Author     models.UserSummary   `json:"author"`
	LikesCount int                  `json:"likes_count"`
	UserLiked  bool                 `json:"user_liked"`
	Comments   []models.CommentView `json:"comments"`
}

// FeedView is the home page payload, minus flashes.
type FeedView struct {
	CurrentUser models.UserSummary   `json:"current_user"`
	Posts       []PostView           `json:"posts"`
	Suggestions []models.UserSummary `json:"suggestions"`
}

type FeedService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewFeedService(postRepo repository.PostRepository, userRepo repository.UserRepository) *FeedService {
	return &FeedService{postRepo: postRepo, userRepo: userRepo}
}

// Feed assembles the posts of viewerID and their accepted friends plus suggestions.
func (s *FeedService) Feed(ctx context.Context, viewerID uint) (view *FeedView, err error) {
	ctx, span := observability.StartSpan(ctx, "FeedService.Feed")
	defer func() { observability.EndSpan(span, err) }()

	current, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.Feed(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	suggested, err := s.userRepo.Suggestions(ctx, viewerID, SuggestionLimit)
	if err != nil {
		return nil, err
	}

	view = &FeedView{
		CurrentUser: current.Summary(),
		Posts:       make([]PostView, 0, len(posts)),
		Suggestions: make([]models.UserSummary, 0, len(suggested)),
	}
	for _, p := range posts {
		view.Posts = append(view.Posts, newPostView(p))
	}
	for i := range suggested {
		view.Suggestions = append(view.Suggestions, suggested[i].Summary())
	}
	return view, nil
}

func newPostView(p *models.Post) PostView {
	comments := make([]models.CommentView, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, p.Comments[i].View())
	}
	return PostView{
		ID:         p.ID,
		Image:      p.Image,
		Caption:    p.Caption,
		PostTime:   p.PostTime,
		Author:     p.User.Summary(),
		LikesCount: p.LikesCount,
		UserLiked:  p.UserLiked,
		Comments:   comments,
	}
}
