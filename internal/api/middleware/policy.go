package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
)

// Policy is the access requirement of a route.
type Policy struct {
	authenticated bool
	permission    domain.Permission
}

var (
	// Public routes skip token checks entirely.
	Public = Policy{}
	// Authenticated routes need any valid token.
	Authenticated = Policy{authenticated: true}
)

// Permission requires a valid token whose claims contain p.
func Permission(p domain.Permission) Policy {
	return Policy{authenticated: true, permission: p}
}

// Guard turns a policy into middleware. Routes are registered with exactly
// one guard so a handler cannot run without its check.
func Guard(verifier ports.TokenVerifier, policy Policy) echo.MiddlewareFunc {
	if !policy.authenticated {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	authenticate := Authenticate(verifier)
	if policy.permission == "" {
		return authenticate
	}

	require := RequirePermission(policy.permission)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(require(next))
	}
}
