package workers

import (
	"context"
	"fmt"

	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/notify"
	"github.com/ashvale/go-craft-market/internal/realtime"
	"github.com/ashvale/go-craft-market/models"
)

// RealtimeWorker feeds the notification center: it backfills missed
// notifications over REST, then subscribes the websocket channel named
// after the authenticated user and forwards every pushed event.
type RealtimeWorker struct {
	channel *realtime.Channel
	center  *notify.Center
	user    string
	logger  *logger.Logger
}

// NewRealtimeWorker wires the websocket channel to the notification center
// for the given username.
func NewRealtimeWorker(channel *realtime.Channel, center *notify.Center, user string, log *logger.Logger) *RealtimeWorker {
	return &RealtimeWorker{channel: channel, center: center, user: user, logger: log}
}

// Run backfills the cache and starts the subscription. The subscription
// keeps reconnecting on its own until ctx is cancelled.
func (w *RealtimeWorker) Run(ctx context.Context) error {
	fresh, err := w.center.Pull(ctx)
	if err != nil {
		// Backfill is best-effort; the push path still works without it.
		w.logger.Warn().Err(err).Msg("notification backfill failed")
	} else if fresh > 0 {
		w.logger.Info().Int("fresh", fresh).Msg("notifications backfilled")
	}

	err = w.channel.Connect(ctx, w.user, func(event models.Event) {
		w.center.HandleEvent(ctx, event)
	})
	if err != nil {
		return fmt.Errorf("start realtime subscription: %w", err)
	}

	go func() {
		<-ctx.Done()
		w.channel.Disconnect()
	}()
	return nil
}
