package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/thermo-slots/internal/config"
	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
	"github.com/oshokin/thermo-slots/internal/service/checker"
	"github.com/oshokin/thermo-slots/internal/service/client"
	"github.com/oshokin/thermo-slots/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides grpc_addr.
	serverAddress string
	// asJSON prints replies as JSON.
	asJSON bool
	// verbose lets info logs through.
	verbose bool
	// pollInterval is the watch refresh period.
	pollInterval time.Duration

	// rootCmd is the base thermoctl command.
	rootCmd = &cobra.Command{
		Use:   "thermoctl",
		Short: "Adjust, save and recall temperatures on a thermo-server.",
		Long: `thermoctl drives one thermo-server session per invocation.

Open a session with "thermoctl new", then pass the printed id to the other
commands. "press" behaves like the panel's slot buttons: it saves after
"save-mode" and recalls otherwise.`,
		SilenceUsage: true,
	}
)

// options builds client options for a command.
func options(cmd *cobra.Command, sessionID string) *client.Options {
	return &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
		SessionID:     sessionID,
		JSON:          asJSON,
		Out:           cmd.OutOrStdout(),
		Verbose:       verbose,
	}
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// actionCommand builds a subcommand that sends one action.
func actionCommand(use, short string, kind domain.ActionKind) *cobra.Command {
	args := cobra.ExactArgs(1)
	if kind.NeedsSlot() {
		args = cobra.ExactArgs(2) //nolint:mnd // session id and slot.
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			var slot string
			if len(args) > 1 {
				slot = args[1]
			}

			action, err := domain.ParseAction(string(kind), slot)
			if err != nil {
				return err
			}

			return client.Act(ctx, options(cmd, args[0]), action)
		},
	}
}

// Execute runs the thermoctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "gRPC server address, overrides grpc_addr")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print the raw reply as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print informational logs")

	watchCmd := &cobra.Command{
		Use:   "watch <session>",
		Short: "Print the panel of a session every time it changes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return checker.Run(ctx, &checker.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				SessionID:     args[0],
				PollInterval:  pollInterval,
				Out:           cmd.OutOrStdout(),
				Verbose:       verbose,
			})
		},
	}
	watchCmd.Flags().DurationVarP(&pollInterval, "interval", "i", checker.DefaultPollInterval, "polling interval")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Open a session and print its id.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, stop := signalContext()
				defer stop()

				return client.NewSession(ctx, options(cmd, ""))
			},
		},
		&cobra.Command{
			Use:   "show <session>",
			Short: "Print the panel of a session.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, stop := signalContext()
				defer stop()

				return client.Show(ctx, options(cmd, args[0]))
			},
		},
		actionCommand("up <session>", "Raise the temperature by 1°C.", domain.ActionIncrement),
		actionCommand("down <session>", "Lower the temperature by 1°C.", domain.ActionDecrement),
		actionCommand("save-mode <session>", "Make the next slot press save.", domain.ActionActivateSave),
		actionCommand("press <session> <slot>", "Press a slot button (save or recall by mode).", domain.ActionPressSlot),
		actionCommand("save <session> <slot>", "Store the current temperature in a slot.", domain.ActionSaveSlot),
		actionCommand("recall <session> <slot>", "Load a slot into the current temperature.", domain.ActionRecallSlot),
		watchCmd,
	)
}
