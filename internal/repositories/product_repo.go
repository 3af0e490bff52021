package repositories

import (
	"context"

	"productsapi/internal/models"

	"github.com/pkg/errors"
)

// ErrProductNotFound is returned when a primary key does not resolve to a row.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.ProductSummary, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	Ping(ctx context.Context) error
}
