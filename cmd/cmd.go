package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/storefront/microservices/internal/pkg/config"
	"github.com/storefront/microservices/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront microservices",
	Long:  `User directory, product catalog and the API gateway in front of them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	userServiceCmd.Flags().BoolVar(&seedAdmin, "seed", false, "Create the default admin user if it does not exist")

	rootCmd.AddCommand(userServiceCmd)
	rootCmd.AddCommand(productServiceCmd)
	rootCmd.AddCommand(gatewayCmd)
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap(ctx context.Context, service string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: service,
	})
	return cfg, log, nil
}

// serve runs e until SIGINT/SIGTERM, then drains in-flight requests and
// runs cleanup.
func serve(e *echo.Echo, port string, log zerolog.Logger, cleanup func(context.Context)) error {
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("starting HTTP server")
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		if cleanup != nil {
			cleanup(ctx)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info().Msg("server stopped")
	return nil
}
