package ports

import (
	"context"

	"github.com/storefront/microservices/internal/core/domain"
)

// ProductFilter carries the normalised list parameters.
type ProductFilter struct {
	Search string // substring matched against name OR description; empty = all
	Skip   int64  // >= 0
	Limit  int64  // 0 = unlimited
}

// ProductUpdate holds the mutable product fields. A nil Description or
// Available keeps the stored value.
type ProductUpdate struct {
	Name        string
	Description *string
	Price       float64
	Available   *bool
}

// ProductRepository defines persistence for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// Update replaces the mutable fields and returns the stored document, or
	// domain.ErrProductNotFound when id matches nothing.
	Update(ctx context.Context, id string, u ProductUpdate) (*domain.Product, error)
	// Delete removes and returns the document, or domain.ErrProductNotFound.
	Delete(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page sorted by created ascending and the total number of
	// documents matching the filter before pagination.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, int64, error)
}

// IdempotencyStore remembers which product a client-supplied key produced.
// A key is reserved before the insert so concurrent requests carrying it
// cannot both create.
type IdempotencyStore interface {
	// Reserve claims key. When the key is already held it returns false and
	// the recorded product id, or "" while the first create is still running.
	Reserve(ctx context.Context, key string) (productID string, reserved bool, err error)
	// Complete records productID under a reserved key.
	Complete(ctx context.Context, key, productID string) error
	// Release drops a reservation whose create failed.
	Release(ctx context.Context, key string) error
}
