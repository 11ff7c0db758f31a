package cmd

import (
	"errors"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/storefront/microservices/internal/infrastructure/gateway"
	"github.com/storefront/microservices/pkg/logger"
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the API gateway",
	Long:  `Forward /api/v1/user and /api/v1/product to their services; answer everything else with "ok".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap(cmd.Context(), "gateway")
		if err != nil {
			return err
		}

		e, err := gateway.NewRouter(gateway.Config{
			Logger: log,
			Routes: []gateway.Route{
				{Name: "user", Prefix: gateway.UserPrefix, Target: cfg.Upstream.UserServiceURL},
				{Name: "product", Prefix: gateway.ProductPrefix, Target: cfg.Upstream.ProductServiceURL},
			},
		})
		if err != nil {
			return err
		}

		if cfg.MetricsPort != "" {
			go serveMetrics(cfg.MetricsPort)
		}

		return serve(e, cfg.Port, log, nil)
	},
}

// serveMetrics exposes /metrics on its own port. The main gateway port
// forwards or answers every path.
func serveMetrics(port string) {
	log := logger.Get().With().Str("listener", "metrics").Logger()

	m := echo.New()
	m.HideBanner = true
	m.HidePort = true
	m.GET("/metrics", echoprometheus.NewHandler())

	log.Info().Str("address", ":"+port).Msg("starting metrics server")
	if err := m.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server failed")
	}
}
