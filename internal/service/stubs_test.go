package service

import (
	"bytes"
	"context"
	"io"
	"sync"

	"instawinx/internal/models"
	"instawinx/internal/repository"
)

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	suggestionsFn   func(context.Context, uint, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Suggestions(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	return s.suggestionsFn(ctx, userID, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(context.Context, *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user", ProfilePic: models.DefaultProfilePic}, nil
		},
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, models.ErrUserNotFound },
		suggestionsFn:   func(context.Context, uint, int) ([]models.User, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn     func(context.Context, *models.Post, func(context.Context) error) error
	feedFn       func(context.Context, uint) ([]*models.Post, error)
	listByUserFn func(context.Context, uint, uint) ([]*models.Post, error)
	toggleLikeFn func(context.Context, uint, uint) (*repository.LikeResult, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, afterInsert func(context.Context) error) error {
	return s.createFn(ctx, post, afterInsert)
}
func (s *postRepoStub) Feed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	return s.feedFn(ctx, viewerID)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID, viewerID uint) ([]*models.Post, error) {
	return s.listByUserFn(ctx, userID, viewerID)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID uint) (*repository.LikeResult, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(ctx context.Context, _ *models.Post, afterInsert func(context.Context) error) error {
			if afterInsert == nil {
				return nil
			}
			return afterInsert(ctx)
		},
		feedFn:       func(context.Context, uint) ([]*models.Post, error) { return nil, nil },
		listByUserFn: func(context.Context, uint, uint) ([]*models.Post, error) { return nil, nil },
		toggleLikeFn: func(context.Context, uint, uint) (*repository.LikeResult, error) {
			return &repository.LikeResult{}, nil
		},
	}
}

type commentRepoStub struct {
	createFn func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}

// friendRepoStub runs Transaction callbacks against itself.
type friendRepoStub struct {
	getBetweenFn   func(context.Context, uint, uint) (*models.Friendship, error)
	createFn       func(context.Context, *models.Friendship) error
	updateStatusFn func(context.Context, uint, models.FriendshipStatus) error
	transactions   int
}

func (s *friendRepoStub) Transaction(_ context.Context, fn func(repository.FriendRepository) error) error {
	s.transactions++
	return fn(s)
}
func (s *friendRepoStub) GetBetween(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	return s.getBetweenFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	return s.createFn(ctx, friendship)
}
func (s *friendRepoStub) UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	return s.updateStatusFn(ctx, friendshipID, status)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		getBetweenFn:   func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		createFn:       func(context.Context, *models.Friendship) error { return nil },
		updateStatusFn: func(context.Context, uint, models.FriendshipStatus) error { return nil },
	}
}

// memStore is an in-memory storage.Store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if m.err != nil {
		return m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *memStore) LocalDir() string { return "" }
