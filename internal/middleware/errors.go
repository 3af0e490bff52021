package middleware

import (
	"github.com/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// StatusFor returns the HTTP status an unhandled error is reported with.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler reports errors no handler recovered from. Errors carrying a
// *fiber.Error keep its code and message; anything else is a generic 500.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := "internal server error"
		if code != fiber.StatusInternalServerError {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				message = fe.Message
			}
		}

		event := logger.Debug()
		if code >= fiber.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled request error")

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
