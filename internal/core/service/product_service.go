package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
)

// DefaultListLimit applies when the caller does not pass a limit.
const DefaultListLimit = 20

// ProductService implements the catalog use cases.
type ProductService struct {
	repo        ports.ProductRepository
	idempotency ports.IdempotencyStore // optional
	validate    *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProductService wires the catalog. idempotency may be nil, in which case
// Idempotency-Key headers are ignored.
func NewProductService(repo ports.ProductRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:        repo,
		idempotency: idempotency,
		validate:    newValidator(),
		logger:      logger,
		now:         time.Now,
	}
}

var productFieldOrder = []string{"Name", "Price"}

var productFieldErrors = map[string]error{
	"Name":  domain.ErrNameRequired,
	"Price": domain.ErrPriceRequired,
}

func (s *ProductService) validateInput(input *ports.ProductInput) error {
	if input == nil {
		return domain.ErrProductRequired
	}
	if err := s.validate.Struct(input); err != nil {
		return firstFailure(err, productFieldOrder, productFieldErrors, domain.ErrProductRequired)
	}
	// +Inf passes gt=0 but cannot be encoded as JSON.
	if math.IsInf(*input.Price, 0) || math.IsNaN(*input.Price) {
		return domain.ErrPriceRequired
	}
	return nil
}

// Create stores a new product. If idempotencyKey was already used, the
// product created by that earlier request is returned without side effects;
// while that request is still running ErrCreateInProgress is returned.
func (s *ProductService) Create(ctx context.Context, input *ports.ProductInput, idempotencyKey string) (*domain.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	key, existing, err := s.reserve(ctx, idempotencyKey)
	if err != nil || existing != nil {
		return existing, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}
	var description string
	if input.Description != nil {
		description = *input.Description
	}

	created, err := s.repo.Create(ctx, &domain.Product{
		Name:        input.Name,
		Description: description,
		Price:       *input.Price,
		Available:   available,
		Created:     s.now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		if key != "" {
			if rerr := s.idempotency.Release(ctx, key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if key != "" {
		if err := s.idempotency.Complete(ctx, key, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to record idempotency key")
		}
	}

	s.logger.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

// reserve claims the idempotency key for this request. It returns the key to
// complete after the insert ("" when no key applies) or the product an
// earlier request already created.
func (s *ProductService) reserve(ctx context.Context, key string) (string, *domain.Product, error) {
	if key == "" || s.idempotency == nil {
		return "", nil, nil
	}

	id, reserved, err := s.idempotency.Reserve(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed, creating anyway")
		return "", nil, nil
	}
	if reserved {
		return key, nil, nil
	}
	if id == "" {
		return "", nil, domain.ErrCreateInProgress
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// The earlier product was deleted since; the new one takes the key.
		s.logger.Info().Str("idempotency_key", key).Str("product_id", id).Msg("replayed product is gone, creating again")
		return key, nil, nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("product_id", existing.ID).Msg("idempotent replay")
	return "", existing, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Update replaces the mutable fields of an existing product. Optional fields
// left out of input keep their stored values. Created is never touched.
func (s *ProductService) Update(ctx context.Context, id string, input *ports.ProductInput) (*domain.Product, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, ports.ProductUpdate{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Available:   input.Available,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		}
		return nil, err
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

// Delete removes a product and returns what was removed.
func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return deleted, nil
}

// List applies the catalog paging rules:
//   - skip defaults to 0; negative values count as 0.
//   - limit defaults to DefaultListLimit; zero or negative disables the limit.
//   - a non-empty query matches name OR description by substring.
func (s *ProductService) List(ctx context.Context, input ports.ListProductsInput) (*ports.ProductPage, error) {
	filter := ports.ProductFilter{
		Search: input.Query,
		Limit:  DefaultListLimit,
	}
	if input.Skip != nil && *input.Skip > 0 {
		filter.Skip = int64(*input.Skip)
	}
	if input.Limit != nil {
		filter.Limit = int64(max(*input.Limit, 0))
	}

	items, count, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Product{}
	}
	return &ports.ProductPage{Data: items, Count: count}, nil
}
