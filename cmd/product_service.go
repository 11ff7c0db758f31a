package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storefront/microservices/internal/api"
	"github.com/storefront/microservices/internal/api/handler"
	"github.com/storefront/microservices/internal/core/ports"
	"github.com/storefront/microservices/internal/core/service"
	mongodb "github.com/storefront/microservices/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/microservices/internal/infrastructure/db/redis"
	"github.com/storefront/microservices/internal/infrastructure/security"
)

var productServiceCmd = &cobra.Command{
	Use:   "product-service",
	Short: "Start the product service",
	Long:  `Serve the product catalog under /api/v1/product.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProductService(cmd.Context())
	},
}

func runProductService(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx, "product-service")
	if err != nil {
		return err
	}
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "product-service",
	})
	if err != nil {
		return err
	}

	repo := mongodb.NewProductRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure product indexes: %w", err)
	}

	health := map[string]handler.Pinger{"mongodb": mongodb.Pinger{Client: client}}

	var idempotency ports.IdempotencyStore
	closeRedis := func() error { return nil }
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		idempotency = redisdb.NewIdempotencyStore(rdb)
		health["redis"] = redisdb.Pinger{Client: rdb}
		closeRedis = rdb.Close
	} else {
		log.Warn().Msg("REDIS_ADDR not set, Idempotency-Key headers will be ignored")
	}

	tokens, err := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return err
	}
	products := service.NewProductService(repo, idempotency, log)

	e := api.NewProductRouter(products, api.Deps{
		Logger:         log,
		Verifier:       tokens,
		RequestTimeout: cfg.RequestTimeout,
		Health:         health,
	})

	return serve(e, cfg.Port, log, func(ctx context.Context) {
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect error")
		}
		if err := closeRedis(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
	})
}
