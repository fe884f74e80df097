package middlewares

import (
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware turns a panic into the error handler's opaque 500. The
// panic is always logged with its request id; the stack only when
// stackTrace is on (RECOVER_STACK_TRACE).
func RecoveryMiddleware(stackTrace bool) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			id, _ := c.Locals(LocRequestID).(string)
			if !stackTrace {
				log.Printf("[ERROR] panic on %s %s (request %s): %v", c.Method(), c.Path(), id, e)
				return
			}
			log.Printf("[ERROR] panic on %s %s (request %s): %v\n%s", c.Method(), c.Path(), id, e, debug.Stack())
		},
	})
}
