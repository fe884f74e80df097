package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRequestContextBoundsUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(2 * time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		if !ok || time.Until(deadline) > 2*time.Second {
			return c.SendStatus(fiber.StatusTeapot)
		}
		if c.Locals(LocRequestID) == "" {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderXRequestID); got != "req-42" {
		t.Fatalf("request id = %q, want the caller's", got)
	}

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get(fiber.HeaderXRequestID) == "" {
		t.Fatal("a request id should be generated")
	}
}
