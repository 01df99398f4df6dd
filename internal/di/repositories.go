// Package di provides dependency injection for repository implementations.
package di

import (
	"fmt"

	"github.com/aristath/tradejournal/internal/modules/accounts"
	"github.com/aristath/tradejournal/internal/modules/dailybook"
	"github.com/aristath/tradejournal/internal/modules/settings"
	"github.com/aristath/tradejournal/internal/modules/tradingplan"
	"github.com/aristath/tradejournal/internal/modules/users"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}
	if container.JournalDB == nil {
		return fmt.Errorf("journal database is not initialized")
	}

	conn := container.JournalDB.Conn()

	container.UserRepo = users.NewRepository(conn, log)
	container.AccountRepo = accounts.NewRepository(conn, log)
	container.TradingPlanRepo = tradingplan.NewRepository(conn, log)
	container.DailyBookRepo = dailybook.NewRepository(conn, log)
	container.SettingsRepo = settings.NewRepository(conn, log)

	log.Info().Msg("Repositories initialized")

	return nil
}
