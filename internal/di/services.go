// Package di provides dependency injection for service implementations.
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/tradejournal/internal/config"
	"github.com/aristath/tradejournal/internal/metrics"
	"github.com/aristath/tradejournal/internal/modules/accounts"
	"github.com/aristath/tradejournal/internal/modules/dailybook"
	"github.com/aristath/tradejournal/internal/modules/dashboard"
	"github.com/aristath/tradejournal/internal/modules/settings"
	"github.com/aristath/tradejournal/internal/modules/tradingplan"
	"github.com/aristath/tradejournal/internal/modules/users"
	"github.com/aristath/tradejournal/internal/modules/widgets"
	"github.com/aristath/tradejournal/internal/reliability"
	"github.com/aristath/tradejournal/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	// backupTimeout bounds a scheduled snapshot including the upload
	backupTimeout = 5 * time.Minute
	// checkpointSchedule truncates the WAL every 30 minutes
	checkpointSchedule = "0 */30 * * * *"
)

// InitializeServices creates all services and stores them in the container
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	// Auth
	container.Tokens = users.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	container.UserService = users.NewService(container.UserRepo, container.Tokens, log)
	container.Authenticator = users.NewAuthenticator(container.UserService, log)
	container.LoginLimiter = users.NewLoginLimiter(cfg.LoginRatePerMinute)

	// Journal
	container.AccountService = accounts.NewService(container.AccountRepo, log)
	container.TradingPlanService = tradingplan.NewService(
		container.TradingPlanRepo,
		tradingplan.OverrideClearedOnTriggerChange,
		metrics.PlansCreated,
		log,
	)
	container.DailyBookService = dailybook.NewService(
		container.DailyBookRepo,
		container.AccountRepo, // Balance propagation runs inside the entry transaction
		metrics.EntriesCreated,
		log,
	)
	container.DashboardService = dashboard.NewService(
		container.DailyBookService,
		container.AccountService,
		container.TradingPlanService,
		log,
	)

	// Preferences and widgets
	container.SettingsService = settings.NewService(container.SettingsRepo, log)
	container.WidgetRenderer = widgets.NewTradingView()

	// Reliability
	if cfg.S3.Enabled() {
		store, err := reliability.NewS3Store(context.Background(), reliability.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 backup store: %w", err)
		}
		container.ObjectStore = store
	}

	container.BackupService = reliability.NewBackupService(
		container.JournalDB,
		cfg.BackupDir(),
		cfg.Backup.Keep,
		container.ObjectStore,
		log,
	)
	container.BackupService.OnResult(metrics.RecordBackup)

	log.Info().Bool("s3_backups", container.ObjectStore != nil).Msg("Services initialized")

	return nil
}

// RegisterJobs creates the scheduler and registers background jobs.
// The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)

	if err := sched.AddJob(checkpointSchedule, scheduler.NewCheckpointJob(container.JournalDB, log)); err != nil {
		return fmt.Errorf("failed to register checkpoint job: %w", err)
	}

	if cfg.Backup.Schedule != "" {
		job := scheduler.NewBackupJob(container.BackupService, backupTimeout)
		if err := sched.AddJob(cfg.Backup.Schedule, job); err != nil {
			return fmt.Errorf("failed to register backup job with schedule %q: %w", cfg.Backup.Schedule, err)
		}
	}

	container.Scheduler = sched
	return nil
}
