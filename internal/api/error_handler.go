package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/microservices/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders coded domain errors as {"code": ..., "message": ...}.
//   - Maps echo's own errors (bad JSON, unknown route) to their status.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, *domain.Error) {
	var de *domain.Error
	if errors.As(err, &de) {
		return StatusFor(de), de
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, &domain.Error{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, &domain.Error{Message: "internal server error"}
}

// StatusFor maps a coded domain error to its HTTP status.
func StatusFor(err *domain.Error) int {
	switch err {
	case domain.ErrAuthentication:
		return http.StatusUnauthorized
	case domain.ErrDuplicateUsername, domain.ErrCreateInProgress:
		return http.StatusConflict
	case domain.ErrProductNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
