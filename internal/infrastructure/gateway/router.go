// Package gateway routes inbound requests to the owning service by path
// prefix and answers everything else with a plain "ok".
package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/storefront/microservices/internal/api/metrics"
)

const (
	UserPrefix    = "/api/v1/user"
	ProductPrefix = "/api/v1/product"
)

// Route sends every path starting with Prefix to Target, so /api/v1/users
// goes to the same upstream as /api/v1/user.
type Route struct {
	Name   string
	Prefix string
	Target string
}

// Config lists the upstreams in match order.
type Config struct {
	Routes []Route
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance for the gateway. Paths are
// forwarded unchanged; only the scheme and host of each Target are used.
func NewRouter(cfg Config) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	// Upstreams see the same X-Request-ID as the caller.
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(forwardRequestID)

	for _, route := range cfg.Routes {
		target, err := upstreamURL(route.Target)
		if err != nil {
			return nil, fmt.Errorf("gateway route %s: %w", route.Name, err)
		}

		e.Use(middleware.ProxyWithConfig(middleware.ProxyConfig{
			Skipper: func(c echo.Context) bool {
				return !strings.HasPrefix(c.Request().URL.Path, route.Prefix)
			},
			Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{
				{Name: route.Name, URL: target},
			}),
			ModifyResponse: func(*http.Response) error {
				metrics.GatewayRequestsTotal.WithLabelValues(route.Name).Inc()
				return nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				cfg.Logger.Error().Err(err).Str("upstream", route.Name).Str("path", c.Request().URL.Path).Msg("proxy failed")
				return echo.NewHTTPError(http.StatusBadGateway, "upstream unavailable")
			},
		}))
	}

	// Anything not claimed by an upstream.
	e.Any("/*", func(c echo.Context) error {
		metrics.GatewayRequestsTotal.WithLabelValues("default").Inc()
		return c.String(http.StatusOK, "ok")
	})

	return e, nil
}

// forwardRequestID copies the generated id onto the outbound request.
func forwardRequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			c.Request().Header.Set(echo.HeaderXRequestID, id)
		}
		return next(c)
	}
}

func upstreamURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream %q must be an absolute URL", raw)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}
