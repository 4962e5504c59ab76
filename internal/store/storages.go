package store

import (
	"context"
	"fmt"

	"github.com/ashvale/go-craft-market/internal/config"
	"github.com/ashvale/go-craft-market/internal/logger"
)

// ClientStorages groups all client-side repositories into a single value
// that can be passed around the service layer.
type ClientStorages struct {
	// Credentials persists the session token pair.
	Credentials CredentialRepository

	// Notifications is the local notification cache.
	Notifications NotificationRepository
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [ClientStorages] value wired to fresh
//     repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.Storage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		Credentials:   NewCredentialRepository(db, logger),
		Notifications: NewNotificationRepository(db, logger),
	}, nil
}
