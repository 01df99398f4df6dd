// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/aristath/tradejournal/internal/config"
	"github.com/aristath/tradejournal/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens journal.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// journal.db - the record of accounts, plans and daily books
	journalDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath(),
		Profile: database.ProfileLedger, // Maximum safety for balances
		Name:    "journal",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize journal database: %w", err)
	}

	if err := journalDB.Migrate(); err != nil {
		journalDB.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}
	container.JournalDB = journalDB

	log.Info().Str("path", journalDB.Path()).Msg("Journal database initialized")

	return container, nil
}
