package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/zone-alarm/internal/config"
	"github.com/oshokin/zone-alarm/internal/service/server"
	"github.com/oshokin/zone-alarm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// metricsAddress overrides the Prometheus listen address.
	metricsAddress string

	// rootCmd represents the base command for running the alarm server.
	rootCmd = &cobra.Command{
		Use:   "alarm-server [listen-address]",
		Short: "Run the zone alarm keypad and clock.",
		Long: `Starts the alarm server: one keypad session, the alarm clock and the gRPC keypad service.

A keypad selects a zone (morning, noon, night, midnight), types the alarm time digit by
digit and commits it. Only digits that can form an hour inside the zone are accepted.
At most one alarm is pending; a new commit overwrites it. The clock checks once per
second and fires when the local wall clock reaches second zero of the alarm minute.

Only the port from the configured server address is used for listening (e.g., :50051).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Alarms live in memory only and are lost on restart.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:     configPath,
				ListenAddress:  listenAddress,
				MetricsAddress: metricsAddress,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the alarm-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&metricsAddress, "metrics-addr", "m", "", "serve Prometheus metrics on this address")
}
