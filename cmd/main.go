package main

import (
	"fmt"
	"os"

	"go-artifact-cleanup/config"
	"go-artifact-cleanup/internal/domain/repositories"
	"go-artifact-cleanup/internal/infrastructure/github"
	loggerPkg "go-artifact-cleanup/internal/infrastructure/logger"
	prometheusMetrics "go-artifact-cleanup/internal/infrastructure/metrics"
	"go-artifact-cleanup/internal/infrastructure/notification"
	"go-artifact-cleanup/internal/infrastructure/report"
	sqliteRepo "go-artifact-cleanup/internal/infrastructure/repositories"
	"go-artifact-cleanup/internal/usecases/cleanup"
	"go-artifact-cleanup/pkg/constants"
	"go-artifact-cleanup/pkg/helper"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version and BuildTime are set during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           constants.ServiceName,
		Short:         "Keep GitHub Actions artifact storage under a size limit",
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", os.Getenv("CONFIG_FILE"), "Path to an optional .env config file")
	flags.String("owner", "", "Repository owner (defaults to GITHUB_REPOSITORY)")
	flags.String("repo", "", "Repository name or owner/repo")
	flags.String("max-size", "", "Storage limit in GB")
	flags.Bool("dry-run", false, "Report what would be deleted without deleting")
	flags.Int("concurrency", constants.DefaultDeleteConcurrency, "Maximum deletions in flight")

	for key, flag := range map[string]string{
		"owner":              "owner",
		"repo":               "repo",
		"max_size_gb":        "max-size",
		"dry_run":            "dry-run",
		"delete_concurrency": "concurrency",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newRunCommand(v), newServeCommand(v))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// application holds the components shared by the run and serve commands.
type application struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *prometheusMetrics.PrometheusMetrics
	results repositories.CleanupResultRepository
	service *cleanup.CleanupService
	closers []func() error
}

func newApplication(cmd *cobra.Command, v *viper.Viper) (*application, error) {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		if _, err := os.Stat(constants.ConfigPath); err == nil {
			configFile = constants.ConfigPath
		}
	}

	cfg, err := config.LoadConfig(v, configFile).Unwrap()
	if err != nil {
		return nil, err
	}

	log, err := loggerPkg.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &application{cfg: cfg, log: log}
	logStartupInfo(log, cfg)

	client, err := github.NewArtifactClient(cfg.Token, cfg.Owner, cfg.Repo, cfg.APIURL, log)
	if err != nil {
		return nil, err
	}

	if cfg.HistoryDBPath != "" {
		history, err := sqliteRepo.NewSQLiteCleanupResultRepository(cfg.HistoryDBPath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open run history: %w", err)
		}
		app.results = history
		app.closers = append(app.closers, history.Close)
	}

	app.metrics = prometheusMetrics.NewPrometheusMetrics(cfg.Repository(), log)
	notifier := notification.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, log)

	app.service = cleanup.NewCleanupService(
		client,
		app.results,
		notifier,
		app.metrics,
		report.NewActionsReporterFromEnv(log),
		cleanup.Options{
			Repository:  cfg.Repository(),
			LimitBytes:  cfg.MaxSizeBytes,
			DryRun:      cfg.DryRun,
			Concurrency: cfg.DeleteConcurrency,
			Timeout:     cfg.CleanupTimeout,
			TimeZone:    cfg.TimeZone,
		},
		log,
	)

	return app, nil
}

func (a *application) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.Error("Failed to close resource", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

func logStartupInfo(log *zap.Logger, cfg *config.Config) {
	log.Info("Starting Artifact Cleanup",
		zap.String("version", Version),
		zap.String("buildTime", BuildTime))

	log.Info("Configuration loaded",
		zap.String("repository", cfg.Repository()),
		zap.String("github_token", helper.MaskValue(cfg.Token)),
		zap.String("api_url", cfg.APIURL),
		zap.Float64("max_size_gb", cfg.MaxSizeGB),
		zap.Int64("max_size_bytes", cfg.MaxSizeBytes),
		zap.Bool("dry_run", cfg.DryRun),
		zap.Int("delete_concurrency", cfg.DeleteConcurrency),
		zap.Duration("cleanup_timeout", cfg.CleanupTimeout),
		zap.String("history_db_path", cfg.HistoryDBPath),
		zap.String("telegram_bot_token", helper.MaskValue(cfg.TelegramBotToken)),
		zap.String("telegram_chat_id", helper.MaskValue(cfg.TelegramChatID)))

	log.Info("Logger configuration",
		zap.String("log_level", cfg.Logger.Level),
		zap.String("log_dir", cfg.Logger.LogDir),
		zap.Int("log_max_size", cfg.Logger.MaxSize),
		zap.Int("log_max_backups", cfg.Logger.MaxBackups),
		zap.Int("log_max_age", cfg.Logger.MaxAge),
		zap.Bool("log_compress", cfg.Logger.Compress))
}
