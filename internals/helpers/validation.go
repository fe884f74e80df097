package helper

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateStruct runs the struct tags and folds every failure into one 400 message.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid input"
	}
	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		field := toSnake(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "email":
			messages = append(messages, field+" must be a valid email")
		case "url":
			messages = append(messages, field+" must be a valid URL")
		case "min":
			messages = append(messages, field+" must be at least "+fieldErr.Param()+" characters")
		case "max":
			messages = append(messages, field+" must be at most "+fieldErr.Param()+" characters")
		case "gt":
			messages = append(messages, field+" must be greater than "+fieldErr.Param())
		case "gte":
			messages = append(messages, field+" must be at least "+fieldErr.Param())
		case "lte":
			messages = append(messages, field+" must be at most "+fieldErr.Param())
		case "oneof":
			messages = append(messages, field+" must be one of: "+strings.ReplaceAll(fieldErr.Param(), " ", ", "))
		case "len":
			messages = append(messages, field+" must be exactly "+fieldErr.Param()+" characters")
		default:
			messages = append(messages, field+" is invalid")
		}
	}
	sort.Strings(messages)
	return strings.Join(messages, "; ")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
