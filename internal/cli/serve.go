package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"options-lab/internal/api"
	"options-lab/internal/resilience"
)

func addServeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Long: `Start the JSON API. Scenario routes are enabled when the scenario
database can be opened; /metrics is served unless disabled in the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Config.Server.Addr
			}

			deps := api.Deps{
				Catalog:  app.Catalog,
				Engine:   app.Engine,
				Metrics:  app.Metrics,
				Defaults: app.Config.Defaults,
				Logger:   app.Logger,
				Health:   resilience.NewHealthMonitor(2 * time.Second),
			}
			if st, err := app.scenarioStore(); err != nil {
				app.Logger.Warn().Err(err).Msg("Scenario store unavailable, scenario routes disabled")
			} else {
				deps.Store = st
				deps.Health.RegisterComponent("store", resilience.PingCheck(st.Ping))
			}
			deps.HideMetrics = !app.Config.Server.MetricsEnabled

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(deps)
			return server.Run(ctx, addr,
				time.Duration(app.Config.Server.ReadTimeoutSec)*time.Second,
				time.Duration(app.Config.Server.WriteTimeoutSec)*time.Second)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	rootCmd.AddCommand(cmd)
}
