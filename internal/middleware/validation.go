package middleware

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BindAndValidate parses the request body into dest and runs its validate
// tags. The returned error is a *fiber.Error carrying a message for the
// first failing field.
func BindAndValidate(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return Validate(dest)
}

func Validate(dest interface{}) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	firstError := validationErrors[0]

	var errorMessage string
	switch firstError.Tag() {
	case "required":
		errorMessage = firstError.Field() + " is required"
	case "email":
		errorMessage = "Invalid email format"
	case "min":
		errorMessage = firstError.Field() + " is too short"
	case "max":
		errorMessage = firstError.Field() + " is too long"
	case "uuid":
		errorMessage = "Invalid UUID format"
	case "oneof":
		errorMessage = firstError.Field() + " must be one of " + firstError.Param()
	case "gt", "gte":
		errorMessage = firstError.Field() + " must be greater than " + firstError.Param()
	default:
		errorMessage = "Validation failed for " + firstError.Field()
	}
	return fiber.NewError(fiber.StatusBadRequest, errorMessage)
}
