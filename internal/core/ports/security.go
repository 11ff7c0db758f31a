package ports

import "github.com/storefront/microservices/internal/core/domain"

// PasswordHasher derives and checks password hash records.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, record string) bool
}

// TokenIssuer signs claims into a bearer token.
type TokenIssuer interface {
	Issue(claims domain.Claims) (string, error)
}

// TokenVerifier resolves a bearer token back into claims.
// Any failure is reported as domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}
