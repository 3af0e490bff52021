package services

import (
	"context"

	"productsapi/internal/metrics"
	"productsapi/internal/models"
	"productsapi/internal/repositories"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// CreateProductInput carries validated fields for a new product.
type CreateProductInput struct {
	Name  string
	Price float64
}

// UpdateProductInput carries validated fields that overwrite a product.
type UpdateProductInput struct {
	Name       string
	Price      float64
	Aviability bool
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.ProductSummary, error) {
	products, err := s.repo.GetAll(ctx)
	record("list", err)
	return products, err
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	record("get", err)
	return product, err
}

// CreateProduct stores a new product. New products are always available.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:       input.Name,
		Price:      input.Price,
		Aviability: true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		record("create", err)
		return nil, err
	}
	record("create", nil)

	s.publish(EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct overwrites name, price and availability of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		record("update", err)
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Aviability = input.Aviability
	if err := s.repo.Update(ctx, product); err != nil {
		record("update", err)
		return nil, err
	}
	record("update", nil)

	s.publish(EventProductUpdated, product.ID, product)
	return product, nil
}

// ToggleAvailability flips the availability flag of an existing product.
func (s *ProductService) ToggleAvailability(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		record("toggle", err)
		return nil, err
	}

	product.Aviability = !product.Aviability
	if err := s.repo.Update(ctx, product); err != nil {
		record("toggle", err)
		return nil, err
	}
	record("toggle", nil)

	s.publish(EventProductAvailabilityToggled, product.ID, product)
	return product, nil
}

// DeleteProduct removes an existing product.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		record("delete", err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		record("delete", err)
		return err
	}
	record("delete", nil)

	s.publish(EventProductDeleted, id, nil)
	return nil
}

// Ping checks that the product store is reachable.
func (s *ProductService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish emits an event; failures are logged and never returned.
func (s *ProductService) publish(eventType string, productID uint, product *models.Product) {
	if s.publisher == nil {
		return
	}

	event := NewProductEvent(eventType, productID, product)
	body, err := event.Marshal()
	if err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to marshal product event")
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Uint("product_id", productID).Msg("failed to publish product event")
		return
	}
	s.logger.Debug().Str("event", eventType).Str("event_id", event.ID).Uint("product_id", productID).Msg("published product event")
}

func record(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrProductNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	metrics.Operations.WithLabelValues(operation, outcome).Inc()
}
