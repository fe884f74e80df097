package middlewares

import (
	"bytes"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

func TestRecoveryMiddleware(t *testing.T) {
	for _, stackTrace := range []bool{false, true} {
		var buf bytes.Buffer
		log.SetOutput(&buf)

		app := fiber.New(fiber.Config{ErrorHandler: helper.FromFiberError})
		app.Use(RequestContext(0), RecoveryMiddleware(stackTrace))
		app.Get("/boom", func(c *fiber.Ctx) error { panic("db handle is nil") })

		req := httptest.NewRequest(fiber.MethodGet, "/boom", nil)
		req.Header.Set(fiber.HeaderXRequestID, "req-7")
		resp, err := app.Test(req)
		log.SetOutput(os.Stderr)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if strings.Contains(string(body), "db handle") || !strings.Contains(string(body), `"INTERNAL_ERROR"`) {
			t.Fatalf("panic value must not reach the client: %s", body)
		}

		out := buf.String()
		if !strings.Contains(out, "req-7") || !strings.Contains(out, "db handle is nil") {
			t.Fatalf("panic not logged with request id: %q", out)
		}
		if got := strings.Contains(out, "goroutine"); got != stackTrace {
			t.Fatalf("stackTrace=%v but stack logged=%v", stackTrace, got)
		}
	}
}
