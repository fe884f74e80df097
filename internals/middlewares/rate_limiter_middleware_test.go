package middlewares

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func TestRateLimiterInMemory(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimiter(RateLimit{Name: "test", Max: 2, Window: time.Minute, Message: "slow down"}, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	want := []int{200, 200, 429}
	for i, code := range want {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != code {
			t.Fatalf("request %d: status = %d, want %d", i+1, resp.StatusCode, code)
		}
	}
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	var nilLimiter *RedisLimiter
	if !nilLimiter.Allow(context.Background(), "k", 1, time.Minute) {
		t.Fatal("nil limiter must allow")
	}
	if NewRedisLimiter(nil) != nil {
		t.Fatal("no client should give no limiter")
	}

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	l := NewRedisLimiter(client)
	if !l.Allow(context.Background(), "rl:test:1.2.3.4", 1, time.Minute) {
		t.Fatal("unreachable redis must not block traffic")
	}
}
