package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
)

const claimsKey = "auth.claims"

// Authenticate validates the bearer token and injects its claims into the
// context. Every failure is a bare 401.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.NoContent(http.StatusUnauthorized)
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return c.NoContent(http.StatusUnauthorized)
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequirePermission rejects requests whose claims lack p with a bare 403.
// It must run after Authenticate.
func RequirePermission(p domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return c.NoContent(http.StatusUnauthorized)
			}
			if !claims.Has(p) {
				return c.NoContent(http.StatusForbidden)
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(domain.Claims)
	return claims, ok
}

// bearerToken accepts exactly "Bearer <token>": two parts separated by a
// single space, with the scheme spelled exactly.
func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
