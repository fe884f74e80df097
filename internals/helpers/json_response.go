package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func okBody(message, fallback string, data any) fiber.Map {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	}
}

// JsonOK: generic success (detail GET etc.)
func JsonOK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(okBody(message, "ok", data))
}

// JsonCreated: POST success
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(okBody(message, "created", data))
}

// JsonUpdated: PATCH/PUT success
func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(okBody(message, "updated", data))
}

// JsonDeleted: DELETE success
func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(okBody(message, "deleted", data))
}

// JsonList: list with pagination
func JsonList(c *fiber.Ctx, message string, data any, pagination Pagination) error {
	body := okBody(message, "ok", data)
	if pagination.Count == 0 {
		pagination.Count = lenOf(data)
	}
	body["pagination"] = pagination
	return c.Status(fiber.StatusOK).JSON(body)
}
