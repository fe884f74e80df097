package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocAccount  = "account"
)

// GetUserIDFromToken reads the user id stored by the auth middleware.
func GetUserIDFromToken(c *fiber.Ctx) (int64, error) {
	switch t := c.Locals(LocUserID).(type) {
	case int64:
		if t > 0 {
			return t, nil
		}
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil && id > 0 {
			return id, nil
		}
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid user id in token")
	}
	return 0, fiber.NewError(fiber.StatusUnauthorized, "not logged in")
}

// ParamID parses a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// GetUserRole returns the role stored by the auth middleware, "" for visitors.
func GetUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocUserRole).(string)
	return role
}
