package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ytdigest/config"
	"ytdigest/internal/logging"
	"ytdigest/schedule"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "ytdigest",
		Short: "Record the day's YouTube uploads in a Notion database",
		Long: `ytdigest checks a fixed list of YouTube channels for videos published in
the last 24 hours, embeds the relevant ones in a dated Notion page and lists
the rest by title, then sends a completion email.

Examples:
  ytdigest run                        # one run now
  ytdigest schedule                   # run daily at the configured hour
  ytdigest run --config ./ytdigest.yaml`,
		SilenceUsage: true,
		Version:      version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to ytdigest.yaml")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the digest once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runOnce(ctx, cfg, logger)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "schedule",
		Short: "Install the daily trigger and keep running",
		Long: `Install the daily trigger at schedule.hour in the configured timezone and
block until interrupted. Re-running replaces the trigger instead of adding one.

The completion email is only sent when mail.host is set; without it each run
logs a warning in its place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	})

	return root
}

func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Debug("config loaded", zap.Any("config", cfg.Redacted()))
	return cfg, logger, nil
}

// runOnce builds a fresh pipeline and executes it.
func runOnce(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	runner, cleanup, err := newRunner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = runner.Run(ctx)
	return err
}

// serve installs the daily trigger and blocks until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	sched := schedule.New(loc, logger)
	job := func() {
		if err := runOnce(ctx, cfg, logger); err != nil {
			logger.Error("scheduled run failed", zap.Error(err))
		}
	}
	if err := sched.EnsureDaily(cfg.Schedule.Name, cfg.Schedule.Hour, job); err != nil {
		return err
	}

	sched.Start()
	next, _ := sched.NextAfter(cfg.Schedule.Name, time.Now())
	logger.Info("scheduler started",
		zap.String("name", cfg.Schedule.Name),
		zap.Int("hour", cfg.Schedule.Hour),
		zap.Time("next_run", next))

	<-ctx.Done()
	logger.Info("shutting down, waiting for running jobs")
	<-sched.Stop().Done()
	return nil
}
