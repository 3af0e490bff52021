package handlers

import (
	"time"

	"productsapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process and database health.
type HealthHandler struct {
	service *services.ProductService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service *services.ProductService) *HealthHandler {
	return &HealthHandler{service: service}
}

// RegisterRoutes registers GET /health.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth always answers 200; the database field says whether the pool
// can reach the database.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	database := "up"
	if err := h.service.Ping(c.UserContext()); err != nil {
		database = "down"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
	})
}
