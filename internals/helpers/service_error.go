package helper

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// NotFoundOrDenied deliberately does not distinguish a missing row from one the
// caller may not touch.
func NotFoundOrDenied(entity string) error {
	return fiber.NewError(fiber.StatusNotFound, entity+" not found or access denied")
}

func BadRequest(message string) error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Conflict(message string) error {
	return fiber.NewError(fiber.StatusConflict, message)
}

func Forbidden(message string) error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

// StorageError logs the underlying failure and hides it from the caller.
func StorageError(op string, err error) error {
	log.Printf("[ERROR] %s: %v", op, err)
	return fiber.NewError(fiber.StatusInternalServerError, "failed to "+op)
}

// ErrorCode returns the HTTP-style code carried by a service error, 500 otherwise.
func ErrorCode(err error) int {
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorMessage returns the caller-facing message of a service error.
func ErrorMessage(err error) string {
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Message
	}
	if err == nil {
		return ""
	}
	return "internal server error"
}
