package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storefront/microservices/internal/api"
	"github.com/storefront/microservices/internal/api/handler"
	"github.com/storefront/microservices/internal/core/domain"
	"github.com/storefront/microservices/internal/core/ports"
	"github.com/storefront/microservices/internal/core/service"
	mongodb "github.com/storefront/microservices/internal/infrastructure/db/mongo"
	"github.com/storefront/microservices/internal/infrastructure/security"
)

var seedAdmin bool

// defaultAdmin is created by --seed.
var defaultAdmin = ports.CreateUserInput{
	Username:    "admin",
	Password:    "password#123",
	Permissions: []string{string(domain.PermissionAdmin), string(domain.PermissionManageProducts)},
}

var userServiceCmd = &cobra.Command{
	Use:   "user-service",
	Short: "Start the user service",
	Long:  `Serve user registration and token issuance under /api/v1/user.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUserService(cmd.Context())
	},
}

func runUserService(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx, "user-service")
	if err != nil {
		return err
	}
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "user-service",
	})
	if err != nil {
		return err
	}

	repo := mongodb.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	tokens, err := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return err
	}
	users, err := service.NewUserService(repo, security.NewPasswordHasher(security.DefaultArgon2Params), tokens, log)
	if err != nil {
		return err
	}

	if seedAdmin {
		seed := defaultAdmin
		if err := users.EnsureUser(ctx, &seed); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	e := api.NewUserRouter(users, api.Deps{
		Logger:         log,
		Verifier:       tokens,
		RequestTimeout: cfg.RequestTimeout,
		Health:         map[string]handler.Pinger{"mongodb": mongodb.Pinger{Client: client}},
	})

	return serve(e, cfg.Port, log, func(ctx context.Context) {
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect error")
		}
	})
}
