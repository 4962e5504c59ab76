// SPDX-License-Identifier: Apache-2.0

// Package notify keeps the local notification cache in sync with the
// backend.
//
// Notifications arrive over two paths: pushed as realtime events while the
// websocket is open, and pulled from the REST API to backfill whatever was
// missed while offline. Both paths funnel into the same SQLite cache, which
// dedupes by server-assigned id, so a notification observed on both paths
// is surfaced to the sink exactly once.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ashvale/go-craft-market/internal/adapter"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/store"
	"github.com/ashvale/go-craft-market/models"
)

// Sink receives notifications that have not been seen before, in the order
// the center observed them. A nil sink is allowed; the cache still fills.
type Sink func(models.Notification)

// Center is the notification service: ingestion, backfill, and read state.
type Center struct {
	adapter adapter.ServerAdapter
	repo    store.NotificationRepository
	logger  *logger.Logger
	sink    Sink
}

// NewCenter constructs the notification center. Fresh notifications are
// forwarded to sink after they are cached.
func NewCenter(serverAdapter adapter.ServerAdapter, repo store.NotificationRepository, sink Sink, log *logger.Logger) *Center {
	return &Center{adapter: serverAdapter, repo: repo, sink: sink, logger: log}
}

// HandleEvent ingests a realtime event. Frames that do not carry a
// notification payload are logged and dropped; duplicates of already cached
// notifications are absorbed silently.
func (c *Center) HandleEvent(ctx context.Context, event models.Event) {
	var notif models.Notification
	if err := json.Unmarshal(event.Payload, &notif); err != nil {
		c.logger.Warn().Err(err).Str("type", string(event.Type)).Msg("discarding undecodable event payload")
		return
	}
	if notif.ID == 0 {
		c.logger.Warn().Str("type", string(event.Type)).Msg("discarding event without notification id")
		return
	}

	c.ingest(ctx, notif)
}

// Pull backfills the cache from the REST API, walking every page. Returns
// the number of notifications that were new to the cache.
func (c *Center) Pull(ctx context.Context) (int, error) {
	fresh := 0
	for page := 1; ; page++ {
		result, err := c.adapter.Notifications(ctx, page)
		if err != nil {
			return fresh, fmt.Errorf("pull notifications page %d: %w", page, err)
		}

		for _, notif := range result.Results {
			if c.ingest(ctx, notif) {
				fresh++
			}
		}

		if result.Next == "" {
			return fresh, nil
		}
	}
}

// List returns the most recent cached notifications, newest first. A
// non-positive limit returns everything.
func (c *Center) List(ctx context.Context, limit int) ([]models.Notification, error) {
	return c.repo.List(ctx, limit)
}

// Unread returns the cached notifications not yet marked read, newest
// first.
func (c *Center) Unread(ctx context.Context) ([]models.Notification, error) {
	return c.repo.Unread(ctx)
}

// MarkRead flags a cached notification as read. Returns
// [store.ErrNotificationNotFound] for an unknown id.
func (c *Center) MarkRead(ctx context.Context, id int64) error {
	return c.repo.MarkRead(ctx, id)
}

func (c *Center) ingest(ctx context.Context, notif models.Notification) bool {
	inserted, err := c.repo.Insert(ctx, notif)
	if err != nil {
		c.logger.Err(err).Int64("id", notif.ID).Msg("failed to cache notification")
		return false
	}
	if !inserted {
		return false
	}

	c.logger.Debug().Int64("id", notif.ID).Str("type", string(notif.Type)).Msg("notification cached")
	if c.sink != nil {
		c.sink(notif)
	}
	return true
}
