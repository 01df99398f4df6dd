/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to services.
 */
package di

import (
	"github.com/aristath/tradejournal/internal/database"
	"github.com/aristath/tradejournal/internal/modules/accounts"
	"github.com/aristath/tradejournal/internal/modules/dailybook"
	"github.com/aristath/tradejournal/internal/modules/dashboard"
	"github.com/aristath/tradejournal/internal/modules/settings"
	"github.com/aristath/tradejournal/internal/modules/tradingplan"
	"github.com/aristath/tradejournal/internal/modules/users"
	"github.com/aristath/tradejournal/internal/modules/widgets"
	"github.com/aristath/tradejournal/internal/reliability"
	"github.com/aristath/tradejournal/internal/scheduler"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Database: a single journal.db (users, accounts, plans, daily books, settings)
 * - Repositories: Data access layer, one per module
 * - Services: Business logic layer
 * - Auth: token issuing, request authentication and login throttling
 * - Reliability: snapshots, optional S3 upload and the cron scheduler
 */
type Container struct {
	// Database
	JournalDB *database.DB

	// Repositories
	UserRepo        *users.Repository
	AccountRepo     *accounts.Repository
	TradingPlanRepo *tradingplan.Repository
	DailyBookRepo   *dailybook.Repository
	SettingsRepo    *settings.Repository

	// Services
	UserService        *users.Service
	AccountService     *accounts.Service
	TradingPlanService *tradingplan.Service
	DailyBookService   *dailybook.Service
	DashboardService   *dashboard.Service
	SettingsService    *settings.Service
	WidgetRenderer     widgets.Renderer

	// Auth
	Tokens        *users.TokenIssuer
	Authenticator *users.Authenticator
	LoginLimiter  *users.LoginLimiter

	// Reliability
	ObjectStore   reliability.ObjectStore // nil when S3 is not configured
	BackupService *reliability.BackupService
	Scheduler     *scheduler.Scheduler
}

// Close releases the resources held by the container
func (c *Container) Close() error {
	if c.JournalDB == nil {
		return nil
	}
	return c.JournalDB.Close()
}
