package ports

import (
	"context"

	"github.com/storefront/microservices/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create inserts the user. Implementations must rely on a storage-level
	// uniqueness constraint and return domain.ErrDuplicateUsername on conflict.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
