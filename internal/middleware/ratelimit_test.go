package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCountHit_WindowAndExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := countHit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should pass", i+1)
	}

	ok, err := countHit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.TTL("rl:login:ip:1.2.3.4") > 0)

	mr.FastForward(2 * time.Minute)
	ok, err = countHit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCountHit_NilClient(t *testing.T) {
	_, err := countHit(context.Background(), nil, "login", "ip:x", 1, time.Minute)
	assert.Error(t, err)
}

func postStatuses(t *testing.T, app *fiber.App, path string, n int) []int {
	t.Helper()
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
		_ = resp.Body.Close()
	}
	return codes
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func TestRateLimitExempt(t *testing.T) {
	for _, env := range []string{"", "test", "development", "stress"} {
		assert.True(t, RateLimitExempt(env), env)
	}
	for _, env := range []string{"production", "prod", "staging"} {
		assert.False(t, RateLimitExempt(env), env)
	}
}

func TestRateLimit_EnforcedInProduction(t *testing.T) {
	_, rdb := newTestRedis(t)

	app := fiber.New()
	app.Post("/login", RateLimit(rdb, "production", 2, time.Minute, "login"), okHandler)

	assert.Equal(t, []int{200, 200, 429}, postStatuses(t, app, "/login", 3))
}

func TestRateLimit_InMemoryWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Post("/login", RateLimit(nil, "production", 2, 5*time.Minute, "login"), okHandler)
	app.Post("/register", RateLimit(nil, "production", 1, 5*time.Minute, "register"), okHandler)

	assert.Equal(t, []int{200, 200, 429, 429, 429}, postStatuses(t, app, "/login", 5))
	assert.Equal(t, []int{200, 429}, postStatuses(t, app, "/register", 2))
}

func TestRateLimit_ExemptInTest(t *testing.T) {
	app := fiber.New()
	app.Post("/login", RateLimitWithPolicy(nil, "test", 1, time.Minute, FailClosed, "login"), okHandler)

	assert.Equal(t, []int{200, 200, 200}, postStatuses(t, app, "/login", 3))
}

func TestRateLimit_IgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	app := fiber.New()
	app.Post("/login", RateLimit(nil, "production", 1, time.Minute, "login"), okHandler)

	assert.Equal(t, []int{200, 429}, postStatuses(t, app, "/login", 2))
}

func TestRateLimit_FailClosedWhenRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	app := fiber.New()
	app.Post("/register", RateLimitWithPolicy(rdb, "production", 1, time.Minute, FailClosed, "register"), okHandler)

	assert.Equal(t, []int{http.StatusServiceUnavailable}, postStatuses(t, app, "/register", 1))
}

func TestRateLimit_FailOpenWhenRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	app := fiber.New()
	app.Post("/login", RateLimit(rdb, "production", 1, time.Minute, "login"), okHandler)

	assert.Equal(t, []int{200, 200}, postStatuses(t, app, "/login", 2))
}
