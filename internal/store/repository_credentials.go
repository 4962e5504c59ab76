package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/models"
)

type credentialRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewCredentialRepository constructs the SQLite-backed implementation of
// [CredentialRepository].
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	return &credentialRepository{db: db, logger: logger}
}

func (c *credentialRepository) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credentials tx: %w", err)
	}
	defer tx.Rollback()

	entries := map[string]string{
		CredentialAccessToken:  pair.Access,
		CredentialRefreshToken: pair.Refresh,
	}
	for name, value := range entries {
		query, args, err := sq.
			Insert("credentials").
			Columns("name", "value").
			Values(name, value).
			Suffix("ON CONFLICT(name) DO UPDATE SET value = excluded.value").
			ToSql()
		if err != nil {
			return fmt.Errorf("build credentials upsert: %w", err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			c.logger.Err(err).Str("entry", name).Msg("failed to upsert credential entry")
			return fmt.Errorf("save credential %s: %w", name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit credentials tx: %w", err)
	}
	return nil
}

func (c *credentialRepository) LoadTokens(ctx context.Context) (models.TokenPair, error) {
	query, args, err := sq.
		Select("name", "value").
		From("credentials").
		Where(sq.Eq{"name": []string{CredentialAccessToken, CredentialRefreshToken}}).
		ToSql()
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("build credentials select: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var pair models.TokenPair
	found := false
	for rows.Next() {
		var name, value string
		if err = rows.Scan(&name, &value); err != nil {
			return models.TokenPair{}, fmt.Errorf("scan credential row: %w", err)
		}
		switch name {
		case CredentialAccessToken:
			pair.Access = value
		case CredentialRefreshToken:
			pair.Refresh = value
		}
		found = true
	}
	if err = rows.Err(); err != nil {
		return models.TokenPair{}, fmt.Errorf("iterate credential rows: %w", err)
	}

	if !found || pair.Access == "" {
		return models.TokenPair{}, ErrNoStoredSession
	}
	return pair, nil
}

func (c *credentialRepository) ClearTokens(ctx context.Context) error {
	query, args, err := sq.
		Delete("credentials").
		Where(sq.Eq{"name": []string{CredentialAccessToken, CredentialRefreshToken}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build credentials delete: %w", err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.logger.Err(err).Msg("failed to clear credential entries")
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
