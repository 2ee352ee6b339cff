package middleware

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when the counter store is
// unreachable.
type FailPolicy int

const (
	// FailOpen lets the request through when Redis is down.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request with 503 when Redis is down.
	FailClosed
)

var errNoLimitStore = errors.New("rate limit store not configured")

// limitBypassed reports whether rate limiting is switched off for the current
// environment. Local development and the test suite run without throttling.
func limitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true
	}
	return false
}

// CheckRateLimit counts one hit for id against the named resource and reports
// whether the hit is still inside the limit for the window. The counter lives
// in Redis under rl:<resource>:<id> and expires with the window, so a quiet
// id costs nothing.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if limitBypassed() {
		return true, nil
	}
	if rdb == nil {
		return false, errNoLimitStore
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	hits, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if hits == 1 {
		// First hit in this window starts the clock.
		rdb.Expire(ctx, key, window)
	}
	return hits <= int64(limit), nil
}

// callerIdentity keys the counter by the authenticated user when there is
// one, and by remote address otherwise.
func callerIdentity(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(string); ok && uid != "" {
		return "user:" + uid
	}
	return "ip:" + c.IP()
}

// RateLimit returns a Fiber middleware allowing `limit` requests per `window`
// per caller, failing open when the counter store is unreachable. An optional
// name overrides the request path as the resource label, so several routes
// can share one budget.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit store-failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, callerIdentity(c), limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unreachable, failing closed",
					"resource", resource, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			Logger.WarnContext(c.UserContext(), "rate limit store unreachable, failing open",
				"resource", resource, "error", err)
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
