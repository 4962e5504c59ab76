package store

import (
	"context"

	"github.com/ashvale/go-craft-market/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Credential entry names used in the local credentials table. The session
// manager is the only writer of these rows.
const (
	CredentialAccessToken  = "access_token"
	CredentialRefreshToken = "refresh_token"
)

// CredentialRepository persists the session's token pair across client
// restarts.
type CredentialRepository interface {
	// SaveTokens upserts both credential entries atomically.
	SaveTokens(ctx context.Context, pair models.TokenPair) error

	// LoadTokens returns the stored pair, or [ErrNoStoredSession] when no
	// credentials are persisted.
	LoadTokens(ctx context.Context) (models.TokenPair, error)

	// ClearTokens removes both entries. Idempotent.
	ClearTokens(ctx context.Context) error
}

// NotificationRepository is the local notification cache. Its primary job is
// collapsing duplicate deliveries: the same notification may arrive via REST
// pull and again via the realtime channel after a reconnect.
type NotificationRepository interface {
	// Insert stores the notification unless one with the same ID already
	// exists. Reports whether a row was actually inserted.
	Insert(ctx context.Context, n models.Notification) (bool, error)

	// List returns the most recent notifications, newest first, up to limit
	// (unbounded when limit <= 0).
	List(ctx context.Context, limit int) ([]models.Notification, error)

	// Unread returns all unread notifications, newest first.
	Unread(ctx context.Context) ([]models.Notification, error)

	// MarkRead flips the local read marker for the given notification.
	MarkRead(ctx context.Context, id int64) error
}
