package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"instawinx/internal/models"
	"instawinx/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_FeedOrderingAndVisibility(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "bloom")
	friendA := testutil.CreateUser(t, db, "stella")
	friendB := testutil.CreateUser(t, db, "flora")
	pending := testutil.CreateUser(t, db, "musa")
	stranger := testutil.CreateUser(t, db, "tecna")

	testutil.Befriend(t, db, me.ID, friendA.ID, models.FriendshipStatusAccepted)
	testutil.Befriend(t, db, friendB.ID, me.ID, models.FriendshipStatusAccepted)
	testutil.Befriend(t, db, me.ID, pending.ID, models.FriendshipStatusPending)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p1 := testutil.CreatePost(t, db, me.ID, base)
	p2 := testutil.CreatePost(t, db, friendA.ID, base.Add(time.Minute))
	p3 := testutil.CreatePost(t, db, friendB.ID, base.Add(2*time.Minute))
	testutil.CreatePost(t, db, pending.ID, base.Add(3*time.Minute))
	testutil.CreatePost(t, db, stranger.ID, base.Add(4*time.Minute))

	posts, err := repo.Feed(ctx, me.ID)
	require.NoError(t, err)

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, ids)
	assert.Equal(t, "flora", posts[0].User.Username)
}

func TestPostRepository_FeedLikesAndComments(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "aisha")
	friend := testutil.CreateUser(t, db, "roxy")
	testutil.Befriend(t, db, me.ID, friend.ID, models.FriendshipStatusAccepted)

	post := testutil.CreatePost(t, db, me.ID, time.Now())
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: friend.ID}).Error)

	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: friend.ID, Text: "second", CommentTime: t0.Add(time.Minute)}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: me.ID, Text: "first", CommentTime: t0}).Error)

	posts, err := repo.Feed(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	got := posts[0]
	assert.Equal(t, 1, got.LikesCount)
	assert.False(t, got.UserLiked)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Text)
	assert.Equal(t, "aisha", got.Comments[0].User.Username)
	assert.Equal(t, "second", got.Comments[1].Text)
	assert.Equal(t, "roxy", got.Comments[1].User.Username)

	friendFeed, err := repo.Feed(ctx, friend.ID)
	require.NoError(t, err)
	require.Len(t, friendFeed, 1)
	assert.True(t, friendFeed[0].UserLiked)
}

func TestPostRepository_ToggleLikeTwiceRestoresState(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "daphne")
	fan := testutil.CreateUser(t, db, "faragonda")
	other := testutil.CreateUser(t, db, "griselda")
	post := testutil.CreatePost(t, db, owner.ID, time.Now())
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: other.ID}).Error)

	first, err := repo.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.EqualValues(t, 2, first.LikesCount)
	assert.Equal(t, owner.ID, first.PostOwnerID)

	second, err := repo.ToggleLike(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.EqualValues(t, 1, second.LikesCount)
}

func TestPostRepository_ToggleLikeUnknownPost(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	u := testutil.CreateUser(t, db, "icy")

	_, err := repo.ToggleLike(context.Background(), 404, u.ID)
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}

func TestPostRepository_ListByUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "layla")
	viewer := testutil.CreateUser(t, db, "nabu")
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	older := testutil.CreatePost(t, db, owner.ID, base)
	newer := testutil.CreatePost(t, db, owner.ID, base.Add(time.Hour))
	testutil.CreatePost(t, db, viewer.ID, base.Add(2*time.Hour))
	require.NoError(t, db.Create(&models.Like{PostID: older.ID, UserID: viewer.ID}).Error)

	posts, err := repo.ListByUser(ctx, owner.ID, viewer.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	assert.Equal(t, 1, posts[1].LikesCount)
	assert.True(t, posts[1].UserLiked)
	assert.Equal(t, 0, posts[0].LikesCount)
}

func TestPostRepository_CreateSetsPostTime(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	u := testutil.CreateUser(t, db, "sky")

	p := &models.Post{UserID: u.ID, Image: "1_20240101000000.jpg", Caption: "hi"}
	require.NoError(t, repo.Create(context.Background(), p, nil))
	assert.NotZero(t, p.ID)
	assert.False(t, p.PostTime.IsZero())
}

func TestPostRepository_CreateRunsHookInTransaction(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPostRepository(db)
	u := testutil.CreateUser(t, db, "sky")
	ctx := context.Background()

	var seenID uint
	p := &models.Post{UserID: u.ID, Image: "1_20240101000000.jpg"}
	require.NoError(t, repo.Create(ctx, p, func(context.Context) error {
		seenID = p.ID
		return nil
	}))
	assert.Equal(t, p.ID, seenID)

	uploadErr := errors.New("bucket gone")
	failed := &models.Post{UserID: u.ID, Image: "1_20240101000001.jpg"}
	err := repo.Create(ctx, failed, func(context.Context) error { return uploadErr })
	assert.ErrorIs(t, err, uploadErr)
	assert.Zero(t, failed.ID)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
