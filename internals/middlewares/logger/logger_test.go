package logger

import (
	"bytes"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSkipSet(t *testing.T) {
	got := skipSet(" /health, /metrics ,,")
	want := map[string]bool{"/health": true, "/metrics": true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("skipSet = %v, want %v", got, want)
	}
	if len(skipSet("")) != 0 {
		t.Fatal("empty list should skip nothing")
	}
}

func TestAccessLogSkipsHealth(t *testing.T) {
	t.Setenv("LOG_SKIP_PATHS", "/health")
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-9")
		c.Locals("user_id", int64(12))
		return c.Next()
	})
	app.Use(newLogger(&buf))
	app.Get("/*", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, path := range []string{"/health", "/jobs"} {
		if _, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil)); err != nil {
			t.Fatal(err)
		}
	}

	out := buf.String()
	if strings.Contains(out, "/health") {
		t.Fatalf("health check should not be logged: %q", out)
	}
	if !strings.Contains(out, "req-9 user=12") || !strings.Contains(out, "GET /jobs - 200") {
		t.Fatalf("unexpected access line: %q", out)
	}
}
