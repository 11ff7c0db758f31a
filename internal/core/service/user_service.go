package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
)

// UserService implements registration and authentication.
type UserService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	validate *validator.Validate
	log      zerolog.Logger

	// dummyHash is verified against when the user does not exist so both
	// failure paths cost one KDF evaluation.
	dummyHash string
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) (*UserService, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validate:  newValidator(),
		log:       log,
		dummyHash: dummy,
	}, nil
}

var userFieldOrder = []string{"Username", "Password"}

var userFieldErrors = map[string]error{
	"Username": domain.ErrUsernameEmpty,
	"Password": domain.ErrPasswordEmpty,
}

// CreateUser validates, hashes and stores a new user. Unknown permission
// names are dropped rather than rejected.
func (s *UserService) CreateUser(ctx context.Context, input *ports.CreateUserInput) (*domain.User, error) {
	if input == nil {
		return nil, domain.ErrUserRequired
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, firstFailure(err, userFieldOrder, userFieldErrors, domain.ErrUserRequired)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Permissions:  domain.FilterPermissions(input.Permissions),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateUsername) {
			s.log.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		}
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Strs("permissions", permissionNames(created.Permissions)).Msg("user created")
	return created, nil
}

// EnsureUser creates the user unless the username is already taken.
func (s *UserService) EnsureUser(ctx context.Context, input *ports.CreateUserInput) error {
	_, err := s.CreateUser(ctx, input)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		s.log.Info().Str("username", input.Username).Msg("seed user already present")
		return nil
	}
	return err
}

// Authenticate returns a bearer token for valid credentials. An unknown user
// and a wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, creds ports.Credentials) (string, error) {
	user, err := s.repo.FindByUsername(ctx, creds.Username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.hasher.Verify(creds.Password, s.dummyHash)
		return "", domain.ErrAuthentication
	case err != nil:
		return "", fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return "", domain.ErrAuthentication
	}

	token, err := s.tokens.Issue(domain.Claims{Username: user.Username, Permissions: user.Permissions})
	if err != nil {
		return "", fmt.Errorf("authenticate: issue token: %w", err)
	}

	return token, nil
}

func permissionNames(perms []domain.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
