package handlers

import (
	"strconv"
	"strings"

	"productsapi/internal/middleware"
	"productsapi/internal/repositories"
	"productsapi/internal/services"
	"productsapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// Response messages that are part of the public API.
const (
	MsgProductNotFound = "product not found"
	MsgProductDeleted  = "product deleted"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes binds method, path, validation chain and handler for every
// product operation under /products.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", middleware.Validate(idRules, "id"), h.HandleGetProductByID)
	productRoutes.Post("/", middleware.Validate(createProductRules), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.Validate(updateProductRules, "id"), h.HandleUpdateProduct)
	productRoutes.Patch("/:id", middleware.Validate(idRules, "id"), h.HandleToggleAvailability)
	productRoutes.Delete("/:id", middleware.Validate(idRules, "id"), h.HandleDeleteProduct)
}

// HandleGetProducts lists every product without timestamps.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if errors.Is(err, repositories.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleCreateProduct creates a new product from a validated body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	body := middleware.Body(c)
	price, err := validation.Float(body["price"])
	if err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), services.CreateProductInput{
		Name:  validation.Text(body["name"]),
		Price: price,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// HandleUpdateProduct overwrites name, price and availability of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	body := middleware.Body(c)
	price, err := validation.Float(body["price"])
	if err != nil {
		return err
	}
	aviability, err := validation.Bool(body["aviability"])
	if err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, services.UpdateProductInput{
		Name:       validation.Text(body["name"]),
		Price:      price,
		Aviability: aviability,
	})
	if errors.Is(err, repositories.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleToggleAvailability flips the availability of a product. Any request
// body is ignored.
func (h *ProductHandler) HandleToggleAvailability(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	product, err := h.service.ToggleAvailability(c.UserContext(), id)
	if errors.Is(err, repositories.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return notFound(c)
	}

	err := h.service.DeleteProduct(c.UserContext(), id)
	if errors.Is(err, repositories.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": MsgProductDeleted})
}

// productID converts the validated id parameter to a key. Integers that cannot
// be a key (negative or too large) report false and are answered as missing.
func productID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(c.Params("id"), "+"), 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": MsgProductNotFound,
	})
}
