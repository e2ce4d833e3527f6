package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func TestAside_LoadsOnceThenServesFromRedis(t *testing.T) {
	_, rdb := setupRedis(t)
	SetClient(rdb)
	t.Cleanup(func() { SetClient(nil) })

	ctx := context.Background()
	loads := 0
	load := func(dest *cachedUser) func() error {
		return func() error {
			loads++
			*dest = cachedUser{ID: 1, Username: "bloom"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &first, UserTTL, load(&first)))
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &second, UserTTL, load(&second)))

	assert.Equal(t, 1, loads)
	assert.Equal(t, "bloom", second.Username)

	InvalidateUser(ctx, 1)
	var third cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &third, UserTTL, load(&third)))
	assert.Equal(t, 2, loads)
}

func TestAside_WithoutClientCallsLoad(t *testing.T) {
	SetClient(nil)
	wantErr := errors.New("db down")

	var u cachedUser
	err := Aside(context.Background(), UserKey(2), &u, UserTTL, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestInitRedis_EmptyAddr(t *testing.T) {
	assert.Nil(t, InitRedis(""))
	assert.Nil(t, GetClient())
}

func TestInitRedis_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := InitRedis("redis://" + mr.Addr())
	require.NotNil(t, rdb)
	t.Cleanup(func() {
		_ = rdb.Close()
		SetClient(nil)
	})
	assert.Same(t, rdb, GetClient())
}

func TestStorage_RoundTrip(t *testing.T) {
	mr, rdb := setupRedis(t)
	s := NewStorage(rdb, "session:")

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("abc", []byte("payload"), time.Minute))
	assert.True(t, mr.Exists("session:abc"))

	val, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)

	mr.FastForward(2 * time.Minute)
	val, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStorage_DeleteAndReset(t *testing.T) {
	mr, rdb := setupRedis(t)
	s := NewStorage(rdb, "limiter:")

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("other:c", "3"))

	require.NoError(t, s.Delete("a"))
	assert.False(t, mr.Exists("limiter:a"))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("limiter:b"))
	assert.True(t, mr.Exists("other:c"))
	assert.NoError(t, s.Close())
}
