package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"yamdb/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors to HTTP responses. message describes
// the failed action and is used for non-validation errors.
func respondError(c *fiber.Ctx, err error, message string) error {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		authErr       *services.AuthError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFoundErr.Error(),
		})
	case errors.As(err, &authErr):
		status := fiber.StatusBadRequest
		if errors.Is(authErr, services.ErrUnknownUser) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": message,
			"error":   authErr.Reason.Error(),
		})
	case errors.Is(err, services.ErrDuplicateReview):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// parseBody decodes and validates the request body into req. It writes
// the error response itself and reports whether the handler may go on.
func parseBody(c *fiber.Ctx, validate *validator.Validate, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// pathIDs reads positive numeric path parameters in the order named.
// Anything else cannot identify a resource and is reported as not found.
func pathIDs(c *fiber.Ctx, names ...string) ([]uint, error) {
	out := make([]uint, len(names))
	for i, name := range names {
		id, err := strconv.ParseUint(c.Params(name), 10, 64)
		if err != nil || id == 0 {
			return nil, &services.NotFoundError{Resource: name, Key: strconv.Quote(c.Params(name))}
		}
		out[i] = uint(id)
	}
	return out, nil
}
