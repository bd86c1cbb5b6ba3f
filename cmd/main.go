package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xlemi/pitchbar/internal/app"
	"github.com/0xlemi/pitchbar/internal/config"
	"github.com/0xlemi/pitchbar/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:           "pitchbar",
		Short:         "Real-time pitch tuner for the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfg, app.ModeTuner)
		},
	}
	cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "list-inputs",
			Short: "List all input devices",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.ListInputs(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "pitch-test",
			Short: "A game where you must play the requested note",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return run(cmd.Context(), cfg, app.ModePitchTest)
			},
		},
	)

	return root
}

func run(ctx context.Context, cfg config.Config, mode app.Mode) error {
	logger, closeLog, err := logging.New(cfg.Debug, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	return app.Run(ctx, cfg, mode, os.Stdout, logger)
}
