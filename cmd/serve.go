package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-artifact-cleanup/internal/interfaces/http/handlers"
	"go-artifact-cleanup/internal/interfaces/http/router"
	"go-artifact-cleanup/internal/usecases/cleanup"
	"go-artifact-cleanup/pkg/constants"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run cleanups on a schedule and expose the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(cmd, v)
			if err != nil {
				return err
			}
			defer app.Close()

			return serve(app)
		},
	}
}

func serve(app *application) error {
	log := app.log

	// Cancelled on shutdown; stops scheduled and API-triggered runs.
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	h := handlers.NewHandlers(cleanupCtx, log, Version, BuildTime,
		app.metrics.GetRegistry(), app.service, app.results)

	fiberApp := router.NewFiberApp(log)
	router.SetupRoutes(fiberApp, h, app.metrics, log)

	cronScheduler, err := setupCronJobs(cleanupCtx, app.service, app.cfg.CleanupSchedule, log)
	if err != nil {
		return err
	}
	cronScheduler.Start()

	serverErr := startServer(fiberApp, app.cfg.HTTPPort, log)
	return handleGracefulShutdown(fiberApp, cronScheduler, serverErr, cleanupCancel, log)
}

func setupCronJobs(ctx context.Context, cleanupService cleanup.CleanupUseCase, schedule string, log *zap.Logger) (*cron.Cron, error) {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(log.Named("cron")))
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	))

	_, err := c.AddFunc(schedule, func() {
		report, err := cleanupService.Cleanup(ctx)
		if err != nil {
			if errors.Is(err, cleanup.ErrCleanupInProgress) {
				log.Warn("Scheduled cleanup skipped", zap.Error(err))
				return
			}
			log.Error("Cleanup job failed",
				zap.Error(err),
				zap.String("schedule", schedule))
			return
		}
		log.Info("Cleanup job finished",
			zap.String("run_id", report.ID),
			zap.String("schedule", schedule))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule cleanup job %q: %w", schedule, err)
	}

	log.Info("Cron scheduler started", zap.String("schedule", schedule))
	return c, nil
}

func startServer(app *router.FiberApp, port string, log *zap.Logger) chan error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server",
			zap.String("port", port),
			zap.String("version", Version))
		if err := app.Listen(":" + port); err != nil {
			serverErr <- err
			return
		}
		log.Info("Server shutdown successfully")
	}()
	return serverErr
}

func handleGracefulShutdown(
	app *router.FiberApp,
	scheduler *cron.Cron,
	serverErr chan error,
	cleanupCancel context.CancelFunc,
	log *zap.Logger,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(quit)

	var shutdownErr error
	select {
	case sig := <-quit:
		log.Info("Received shutdown signal, initiating graceful shutdown...",
			zap.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("Server error occurred", zap.Error(err))
		shutdownErr = err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	// Stop scheduling first, then cancel whatever run is in flight.
	log.Info("Stopping cleanup jobs...")
	cronDone := scheduler.Stop()
	cleanupCancel()

	log.Info("Shutting down HTTP server...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", zap.Error(err))
		shutdownErr = errors.Join(shutdownErr, err)
	}

	select {
	case <-cronDone.Done():
	case <-shutdownCtx.Done():
		log.Warn("Timed out waiting for running cleanup job")
	}

	if shutdownErr != nil {
		log.Error("Service shutdown completed with errors", zap.Error(shutdownErr))
		return shutdownErr
	}

	log.Info("Service shutdown completed successfully")
	return nil
}
