package ports

import (
	"context"

	"github.com/storefront/microservices/internal/core/domain"
)

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Username    string   `validate:"notblank"`
	Password    string   `validate:"notblank"`
	Permissions []string
}

// Credentials are presented to Authenticate.
type Credentials struct {
	Username string
	Password string
}

// UserService is the user directory use-case boundary.
type UserService interface {
	CreateUser(ctx context.Context, input *CreateUserInput) (*domain.User, error)
	Authenticate(ctx context.Context, creds Credentials) (string, error)
}
