package service

import (
	"context"
	"errors"

	"instawinx/internal/models"
	"instawinx/internal/notifications"
	"instawinx/internal/observability"
	"instawinx/internal/repository"
)

// Outcomes of a successful AddFriend call.
const (
	FriendActionRequested = "requested"
	FriendActionAccepted  = "accepted"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, notifier *notifications.Notifier) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// AddFriend moves the friendship between userID and targetID one step forward:
// no record becomes a pending request, and a pending request from targetID is accepted.
func (s *FriendService) AddFriend(ctx context.Context, userID, targetID uint) (action string, err error) {
	ctx, span := observability.StartSpan(ctx, "FriendService.AddFriend")
	defer func() { observability.EndSpan(span, err) }()

	if userID == targetID {
		return "", models.ErrSelfFriendship
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return "", err
	}

	action, err = s.transition(ctx, userID, targetID)
	if errors.Is(err, repository.ErrConflict) {
		// the concurrent writer committed first, so the retry sees its record
		action, err = s.transition(ctx, userID, targetID)
	}
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code != models.CodeInternal {
			observability.FriendshipTransitions.WithLabelValues("rejected").Inc()
		}
		if errors.Is(err, repository.ErrConflict) {
			return "", models.NewInternalError(err)
		}
		return "", err
	}

	observability.FriendshipTransitions.WithLabelValues(action).Inc()

	event := notifications.EventFriendRequest
	if action == FriendActionAccepted {
		event = notifications.EventFriendAccepted
	}
	if err := s.notifier.Notify(ctx, targetID, userID, event, 0); err != nil {
		span.RecordError(err)
	}
	return action, nil
}

func (s *FriendService) transition(ctx context.Context, userID, targetID uint) (string, error) {
	var action string
	err := s.friendRepo.Transaction(ctx, func(repo repository.FriendRepository) error {
		existing, err := repo.GetBetween(ctx, userID, targetID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			action = FriendActionRequested
			return repo.Create(ctx, &models.Friendship{
				User1ID: userID,
				User2ID: targetID,
				Status:  models.FriendshipStatusPending,
			})
		case existing.Status == models.FriendshipStatusAccepted:
			return models.ErrAlreadyFriends
		case existing.User1ID == userID:
			return models.ErrRequestAlreadySent
		default:
			action = FriendActionAccepted
			return repo.UpdateStatus(ctx, existing.ID, models.FriendshipStatusAccepted)
		}
	})
	return action, err
}
