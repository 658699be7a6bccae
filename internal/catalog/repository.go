package catalog

import (
	"context"
	"errors"

	"github.com/jinitha01/ecom-demo/internal/domain"
)

// ErrProductNotFound is returned when a product id does not resolve.
var ErrProductNotFound = errors.New("product not found")

// Repository defines the interface for catalog lookups.
// Consumers define this interface, not the SQL implementation.
type Repository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	Close() error
}
