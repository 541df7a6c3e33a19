package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/thermo-slots/internal/config"
	"github.com/oshokin/thermo-slots/internal/service/server"
	"github.com/oshokin/thermo-slots/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// httpAddress overrides http_addr.
	httpAddress string
	// grpcAddress overrides grpc_addr.
	grpcAddress string
	// keepSavingOnAdjust overrides keep_saving_on_adjust when the flag is given.
	keepSavingOnAdjust bool

	// rootCmd represents the base command for running the server.
	rootCmd = &cobra.Command{
		Use:   "thermo-server",
		Short: "Serve the temperature panel with A/B/C memory slots.",
		Long: `Starts the thermostat server.

The web panel (HTML forms and a JSON API under /api) and Prometheus metrics
(/metrics) are served on the HTTP address; thermoctl talks to the gRPC address.
Each browser or CLI session has its own temperature and slots, kept in memory
only and dropped after session_ttl of inactivity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &server.Options{
				ConfigPath:  configPath,
				HTTPAddress: httpAddress,
				GRPCAddress: grpcAddress,
			}

			if cmd.Flags().Changed("keep-saving-on-adjust") {
				options.KeepSavingOnAdjust = &keepSavingOnAdjust
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the thermo-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&httpAddress, "http-addr", "", "web listen address, overrides http_addr")
	rootCmd.Flags().StringVar(&grpcAddress, "grpc-addr", "", "gRPC listen address, overrides grpc_addr")
	rootCmd.Flags().BoolVar(
		&keepSavingOnAdjust,
		"keep-saving-on-adjust",
		false,
		"keep saving mode active when the temperature is changed",
	)
}
