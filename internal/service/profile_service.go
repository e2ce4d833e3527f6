package service

import (
	"context"

	"instawinx/internal/models"
	"instawinx/internal/observability"
	"instawinx/internal/repository"
)

// ProfileView is a user's page as seen by the viewer, minus flashes.
type ProfileView struct {
	User        *models.User       `json:"user"`
	Posts       []PostView         `json:"posts"`
	Friendship  *string            `json:"friendship_status"`
	CurrentUser models.UserSummary `json:"current_user"`
}

type ProfileService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	friendRepo repository.FriendRepository
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository, friendRepo repository.FriendRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo, postRepo: postRepo, friendRepo: friendRepo}
}

// Profile loads username's page. friendship_status is null for the viewer's own page
// and when the two users have no record.
func (s *ProfileService) Profile(ctx context.Context, viewerID uint, username string) (view *ProfileView, err error) {
	ctx, span := observability.StartSpan(ctx, "ProfileService.Profile")
	defer func() { observability.EndSpan(span, err) }()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	current, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByUser(ctx, user.ID, viewerID)
	if err != nil {
		return nil, err
	}

	view = &ProfileView{
		User:        user,
		Posts:       make([]PostView, 0, len(posts)),
		CurrentUser: current.Summary(),
	}
	for _, p := range posts {
		p.User = *user
		view.Posts = append(view.Posts, newPostView(p))
	}

	if user.ID != viewerID {
		friendship, err := s.friendRepo.GetBetween(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		if rel := friendship.RelationFor(viewerID); rel != "" {
			view.Friendship = &rel
		}
	}
	return view, nil
}
