package ports

import (
	"context"

	"github.com/storefront/microservices/internal/core/domain"
)

// ProductInput is the create/update payload. Price is nil when absent or
// not a number; Description and Available are nil when unspecified.
type ProductInput struct {
	Name        string   `validate:"required"`
	Description *string
	Price       *float64 `validate:"required,gt=0"`
	Available   *bool
}

// ListProductsInput carries raw list parameters; nil means "not supplied".
type ListProductsInput struct {
	Query string
	Skip  *int
	Limit *int
}

// ProductPage is a page of products plus the unpaginated match count.
type ProductPage struct {
	Data  []*domain.Product `json:"data"`
	Count int64             `json:"count"`
}

// ProductService is the catalog use-case boundary.
type ProductService interface {
	Create(ctx context.Context, input *ProductInput, idempotencyKey string) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, input *ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, input ListProductsInput) (*ProductPage, error)
}
