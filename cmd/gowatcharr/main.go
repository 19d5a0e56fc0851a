package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/gowatcharr/internal/api"
	"github.com/amaumene/gowatcharr/internal/config"
	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/notify"
	"github.com/amaumene/gowatcharr/internal/scheduler"
	"github.com/amaumene/gowatcharr/internal/services/douban"
	"github.com/amaumene/gowatcharr/internal/services/flarum"
	"github.com/amaumene/gowatcharr/internal/services/tmdb"
	"github.com/amaumene/gowatcharr/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "gowatcharr",
		Short: "Playback-to-archive sync and forum check-in daemon",
		Long: `Gowatcharr receives media server playback webhooks, syncs watch status
to a douban archive, and performs scheduled cookie check-ins on Flarum forums.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "checkin",
		Short: "Run all forum check-ins once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckin()
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the store and settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(false)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "restore",
		Short: "Merge a backup file into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(true)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gowatcharr %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and initializes the shared pieces every command
// needs: logger, database, settings and notifier.
func setup() (*config.Config, *logrus.Logger, *models.Database, *controllers.Settings, *notify.Webhook, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFile)

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	settings := controllers.NewSettings(cfg.Sync)
	notifier := notify.NewWebhook(cfg.NotifyURL, logger)

	return cfg, logger, db, settings, notifier, nil
}

func runServe() error {
	cfg, logger, db, settings, notifier, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	logger.WithField("version", version).Info("Starting gowatcharr")

	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	doubanClient, err := douban.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize douban client: %w", err)
	}
	logger.Info("Douban client initialized")

	flarumClient := flarum.NewClient(logger)

	coordinator := controllers.NewSyncCoordinator(db, tmdbClient, doubanClient, notifier, settings, logger)
	checkinCtrl := controllers.NewCheckinController(db, flarumClient, notifier, settings, cfg.SitesFile, logger)
	backupCtrl := controllers.NewBackupController(db, settings, logger)
	logger.Info("Controllers initialized")

	sched := scheduler.NewScheduler(checkinCtrl, db, cfg.CheckinCron, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	server := api.NewServer(cfg, db, coordinator, backupCtrl, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Gowatcharr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Gowatcharr stopped")
	return nil
}

func runCheckin() error {
	cfg, logger, db, settings, notifier, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	checkinCtrl := controllers.NewCheckinController(db, flarum.NewClient(logger), notifier, settings, cfg.SitesFile, logger)
	checkinCtrl.CheckinAll(context.Background())
	return nil
}

func runBackup(restore bool) error {
	cfg, logger, db, settings, _, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	backupCtrl := controllers.NewBackupController(db, settings, logger)
	if restore {
		return backupCtrl.Restore(cfg.BackupFile)
	}
	return backupCtrl.Backup(cfg.BackupFile)
}
