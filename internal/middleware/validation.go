package middleware

import (
	"wikiquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedIDKey is the fiber.Locals key holding a validated :id parameter.
const ValidatedIDKey = "validated_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateArticleID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateArticleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errors := vm.validator.ValidateID(id); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler
		}

		c.Locals(ValidatedIDKey, id)
		return c.Next()
	}
}
