package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newRunCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single cleanup and exit",
		Long: `Run fetches every artifact of the repository, deletes the oldest ones until
the total size fits the limit and prints a summary. Failed deletions are
reported as warnings; configuration, listing and internal errors exit non-zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(cmd, v)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			report, err := app.service.Cleanup(ctx)
			if err != nil {
				app.log.Error("Cleanup failed", zap.Error(err))
				return err
			}

			if failed := len(report.Summary.Failures); failed > 0 {
				app.log.Warn("Some artifacts could not be deleted",
					zap.Int("failed", failed),
					zap.String("run_id", report.ID))
			}
			return nil
		},
	}
}
