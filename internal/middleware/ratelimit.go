package middleware

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when Redis cannot be reached.
type FailPolicy int

const (
	// FailOpen lets the request through.
	FailOpen FailPolicy = iota
	// FailClosed answers 503.
	FailClosed
)

var errNoRedis = errors.New("rate limiter: redis client is nil")

// quota is the state of one fixed window after counting a request.
type quota struct {
	allowed   bool
	remaining int
	resetIn   time.Duration
}

// limiterDisabled reports whether APP_ENV switches rate limiting off.
// An unset APP_ENV counts as development.
func limiterDisabled() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true
	}
	return false
}

// CheckRateLimit counts one request for resource/id and reports whether it
// fits in limit per window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if limiterDisabled() {
		return true, nil
	}
	q, err := take(ctx, rdb, resource, id, limit, window)
	return q.allowed, err
}

// take increments the window counter and starts the window on first use.
func take(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (quota, error) {
	if rdb == nil {
		return quota{}, errNoRedis
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	if _, err := rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		ttl = p.PTTL(ctx, key)
		return nil
	}); err != nil {
		RedisErrors.WithLabelValues("ratelimit").Inc()
		return quota{}, err
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		// New key, or one that lost its expiry.
		if err := rdb.PExpire(ctx, key, window).Err(); err != nil {
			RedisErrors.WithLabelValues("ratelimit").Inc()
			return quota{}, err
		}
		resetIn = window
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return quota{allowed: count <= limit, remaining: remaining, resetIn: resetIn}, nil
}

// RateLimit enforces limit requests per window with FailOpen semantics.
// Callers are keyed by c.Locals("userID") when set, otherwise by IP.
// name overrides the path as the counter's resource.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, name ...string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, name...)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiterDisabled() {
			return c.Next()
		}

		id := "ip:" + c.IP()
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		}
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		q, err := take(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limiter unavailable, rejecting request",
					"resource", resource, "path", c.Path(), "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(q.remaining))
		if !q.allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(q.resetIn.Round(time.Second)/time.Second)))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
