package middlewares

import (
	"context"
	"log"
	"time"

	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared by every instance behind the
// same Redis.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{client: client, script: redis.NewScript(rateLimitScript)}
}

// Allow fails open: a Redis error never blocks traffic.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		log.Printf("[WARN] rate limit redis: %v", err)
		return true
	}
	return allowed == 1
}

type RateLimit struct {
	Name    string
	Max     int
	Window  time.Duration
	Message string
}

// RateLimiter keys on client IP. With a Redis limiter the window is shared
// across instances; otherwise fiber's in-memory limiter is used.
func RateLimiter(rl RateLimit, redisLimiter *RedisLimiter) fiber.Handler {
	reached := func(c *fiber.Ctx) error {
		return helper.JsonError(c, fiber.StatusTooManyRequests, rl.Message)
	}
	if redisLimiter == nil {
		return limiter.New(limiter.Config{
			Max:          rl.Max,
			Expiration:   rl.Window,
			KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
			LimitReached: reached,
		})
	}
	return func(c *fiber.Ctx) error {
		if !redisLimiter.Allow(c.UserContext(), "rl:"+rl.Name+":"+c.IP(), rl.Max, rl.Window) {
			return reached(c)
		}
		return c.Next()
	}
}

// GlobalRateLimiter covers every endpoint.
func GlobalRateLimiter(max int, redisLimiter *RedisLimiter) fiber.Handler {
	return RateLimiter(RateLimit{
		Name:    "global",
		Max:     max,
		Window:  time.Minute,
		Message: "too many requests, please try again later",
	}, redisLimiter)
}

// PaymentRateLimiter is stricter and guards gateway calls.
func PaymentRateLimiter(redisLimiter *RedisLimiter) fiber.Handler {
	return RateLimiter(RateLimit{
		Name:    "payments",
		Max:     10,
		Window:  time.Minute,
		Message: "too many payment attempts, please wait a minute",
	}, redisLimiter)
}
