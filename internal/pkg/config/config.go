package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// MetricsPort, when set, exposes /metrics on a separate listener. The
	// gateway uses it because every path on its main port is forwarded or
	// answered with "ok".
	MetricsPort string `env:"METRICS_PORT"`

	// RequestTimeout bounds every request handled by a service.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=15s"`

	JWT      JWTConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
}

type JWTConfig struct {
	Secret string `env:"JWT_SECRET"`
	// TTL of issued tokens. Zero issues tokens without an exp claim.
	TTL time.Duration `env:"JWT_TTL, default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	// Addr is optional; the product service runs without idempotency keys
	// when it is empty.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type UpstreamConfig struct {
	UserServiceURL    string `env:"USER_SERVICE_URL,    default=http://localhost:8081"`
	ProductServiceURL string `env:"PRODUCT_SERVICE_URL, default=http://localhost:8082"`
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// RequireSecret fails when no signing secret is configured. Only services
// that issue or verify tokens call it.
func (c *Config) RequireSecret() error {
	if c.JWT.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}
