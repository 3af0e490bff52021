package middleware

import (
	"strings"

	"productsapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const bodyKey = "validated_body"

// Validate runs chain against the request body and path parameters named in
// params. On failure it answers 400 with {"errors": [...]} and the handler
// never runs. On success the decoded body is available through Body.
func Validate(chain validation.Chain, params ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := decodeBody(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		in := validation.Input{
			Body:   body,
			Params: make(map[string]string, len(params)),
		}
		for _, p := range params {
			in.Params[p] = c.Params(p)
		}

		if errs := chain.Run(in); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": errs,
			})
		}

		c.Locals(bodyKey, body)
		return c.Next()
	}
}

// Body returns the body decoded by Validate. It is never nil.
func Body(c *fiber.Ctx) map[string]any {
	if body, ok := c.Locals(bodyKey).(map[string]any); ok {
		return body
	}
	return map[string]any{}
}

// decodeBody reads a JSON object body. Requests without a JSON content type
// or without a body yield an empty map.
func decodeBody(c *fiber.Ctx) (map[string]any, error) {
	body := map[string]any{}
	raw := c.Body()
	if len(raw) == 0 || !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		return body, nil
	}
	if err := c.BodyParser(&body); err != nil {
		return nil, err
	}
	return body, nil
}
