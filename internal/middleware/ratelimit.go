package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// RateLimitExempt reports whether env skips per-route rate limiting.
func RateLimitExempt(env string) bool {
	switch env {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// countHit counts a hit for (resource, id) in a fixed window.
// Returns true if allowed, false if the limit is exceeded.
func countHit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// rateLimitID keys by authenticated userID when present, otherwise by remote IP.
func rateLimitID(c *fiber.Ctx) string {
	if uid := c.Locals("userID"); uid != nil {
		return fmt.Sprintf("user:%v", uid)
	}
	return fmt.Sprintf("ip:%s", c.IP())
}

func rateLimitExceeded(c *fiber.Ctx, resource string) error {
	RateLimited.WithLabelValues(resource).Inc()
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"success": false,
		"error":   "rate limit exceeded",
	})
}

// RateLimit returns a Fiber middleware enforcing `limit` requests per `window`
// outside the environments RateLimitExempt lists. Redis errors fail open.
func RateLimit(rdb *redis.Client, env string, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, env, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with a specific policy for Redis errors.
// Without a Redis client the counters live in process memory.
func RateLimitWithPolicy(rdb *redis.Client, env string, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	if RateLimitExempt(env) {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	resourceOf := func(c *fiber.Ctx) string {
		if len(name) > 0 {
			return name[0]
		}
		return c.Path()
	}

	if rdb == nil {
		return limiter.New(limiter.Config{
			Max:        limit,
			Expiration: window,
			KeyGenerator: func(c *fiber.Ctx) string {
				return resourceOf(c) + ":" + rateLimitID(c)
			},
			LimitReached: func(c *fiber.Ctx) error {
				return rateLimitExceeded(c, resourceOf(c))
			},
		})
	}

	return func(c *fiber.Ctx) error {
		resource := resourceOf(c)
		allowed, err := countHit(c.UserContext(), rdb, resource, rateLimitID(c), limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"success": false,
					"error":   "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			return rateLimitExceeded(c, resource)
		}
		return c.Next()
	}
}
