package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/zone-alarm/internal/config"
	"github.com/oshokin/zone-alarm/internal/service/keypad"
	"github.com/oshokin/zone-alarm/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// serverAddress overrides the server address from the configuration.
	serverAddress string
	// asJSON switches watch output to protobuf JSON.
	asJSON bool

	// rootCmd is the remote keypad of an alarm server.
	rootCmd = &cobra.Command{
		Use:   "alarm-keypad",
		Short: "Remote keypad for the zone alarm server.",
		Long: `Presses keys on the keypad of a running alarm-server.

Select a zone first, then type the time as up to four digits (hour tens, hour units,
minute tens, minute units) and commit. Typed digits are right-aligned: "730" is 07:30.
Zones: morning 4-10, noon 11-17, night 18-23, midnight 0-3.
Under noon, a decoded hour of 1-5 is read as 13-17.

Example:
  alarm-keypad set noon 1530
  alarm-keypad watch`,
		SilenceUsage: true,
	}
)

// Execute runs the alarm-keypad CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withKeypad opens a keypad for the duration of fn.
func withKeypad(cmd *cobra.Command, fn func(ctx context.Context, k *keypad.Keypad) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	k, err := keypad.Open(ctx, &keypad.Options{
		ConfigPath:    configPath,
		ServerAddress: serverAddress,
		Out:           cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	defer func() {
		_ = k.Close()
	}()

	return fn(ctx, k)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "alarm server address")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream display changes, errors and alarm signals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
				return k.Watch(ctx, asJSON)
			})
		},
	}
	watchCmd.Flags().BoolVar(&asJSON, "json", false, "print events as JSON")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "zone <morning|noon|night|midnight>",
			Short: "Select a zone and reset the input.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
					return k.SelectZone(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "press <digits>",
			Short: "Press one or more digit keys.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
					return k.Press(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "clear-input",
			Short: "Clear the typed digits.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
					return k.ClearInput(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "commit",
			Short: "Set the typed time as the alarm, replacing any pending one.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
					return k.Commit(ctx)
				})
			},
		},
		&cobra.Command{
			Use:     "clear-alarm",
			Aliases: []string{"stop"},
			Short:   "Stop and remove the pending alarm.",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
					return k.ClearAlarm(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the keypad and the pending alarm.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
					return k.Show(ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "set <zone> <digits>",
			Short: "Select a zone, type the digits and commit.",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withKeypad(cmd, func(ctx context.Context, k *keypad.Keypad) error {
					return k.Set(ctx, args[0], args[1])
				})
			},
		},
		watchCmd,
	)
}
