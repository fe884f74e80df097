package auth

import (
	"context"
	"slices"

	"jobmarket_backend/internals/constants"
	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// Capable is the part of a resolved account the guards need.
type Capable interface {
	Role() string
	Blocked() bool
	CanAccess(capability string) bool
}

// Resolver loads the account for a user id; 0 means visitor.
type Resolver func(ctx context.Context, userID int64) (Capable, error)

// LoadAccount resolves the caller once per request. Blocked accounts stop here.
func LoadAccount(resolve Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userID int64
		if id, ok := c.Locals(helper.LocUserID).(int64); ok {
			userID = id
		}
		acc, err := resolve(c.UserContext(), userID)
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusNotFound {
				return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - user not found")
			}
			return err
		}
		if acc.Blocked() {
			return fiber.NewError(fiber.StatusForbidden, "your account has been blocked")
		}
		c.Locals(helper.LocAccount, acc)
		c.Locals(helper.LocUserRole, acc.Role())
		return c.Next()
	}
}

// RequireCapability lets the request through when the resolved account has
// the capability.
func RequireCapability(capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc, ok := c.Locals(helper.LocAccount).(Capable)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - missing account")
		}
		if !acc.CanAccess(capability) {
			return fiber.NewError(fiber.StatusForbidden, constants.CapabilityError(capability))
		}
		return c.Next()
	}
}

// OnlyRoles checks the role stored in the request locals.
func OnlyRoles(message string, roles ...string) fiber.Handler {
	if message == "" {
		message = "forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(helper.LocUserRole).(string)
		if !ok || role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - role not found")
		}
		if slices.Contains(roles, role) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, message)
	}
}
