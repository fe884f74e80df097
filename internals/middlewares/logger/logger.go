package logger

import (
	"io"
	"os"
	"strings"

	"jobmarket_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// accessFormat tags each line with the request id and, once auth has run,
// the caller's user id.
const accessFormat = "[${time}] ${locals:requestid} user=${locals:user_id} ${ip} - ${method} ${path} - ${status} - ${latency}\n"

// LoggerMiddleware writes one access line per request. Paths listed in
// LOG_SKIP_PATHS (comma separated, default /health) are not logged.
func LoggerMiddleware() fiber.Handler {
	return newLogger(os.Stdout)
}

func newLogger(out io.Writer) fiber.Handler {
	skip := skipSet(configs.GetEnv("LOG_SKIP_PATHS", "/health"))
	return logger.New(logger.Config{
		Next:       func(c *fiber.Ctx) bool { return skip[c.Path()] },
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.GetEnv("LOG_TIMEZONE", "UTC"),
		Format:     accessFormat,
		Output:     out,
	})
}

func skipSet(csv string) map[string]bool {
	out := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out[p] = true
		}
	}
	return out
}
