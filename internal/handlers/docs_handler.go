package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed openapi.json
var openAPIDocument []byte

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Products API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({ url: "/docs/openapi.json", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`

// DocsHandler serves the OpenAPI document and a Swagger UI page for it.
type DocsHandler struct{}

// NewDocsHandler creates a new DocsHandler.
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// RegisterRoutes registers /docs and /docs/openapi.json.
func (h *DocsHandler) RegisterRoutes(router fiber.Router) {
	docs := router.Group("/docs")
	docs.Get("/", h.HandleSwaggerUI)
	docs.Get("/openapi.json", h.HandleOpenAPI)
}

// HandleSwaggerUI serves the documentation page.
func (h *DocsHandler) HandleSwaggerUI(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(swaggerUIPage)
}

// HandleOpenAPI serves the OpenAPI 3 document.
func (h *DocsHandler) HandleOpenAPI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(openAPIDocument)
}
