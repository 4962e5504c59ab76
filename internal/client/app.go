// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ashvale/go-craft-market/internal/ledger"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/notify"
	"github.com/ashvale/go-craft-market/internal/realtime"
	"github.com/ashvale/go-craft-market/internal/session"
	"github.com/ashvale/go-craft-market/internal/store"
	"github.com/ashvale/go-craft-market/internal/workers"
)

// App is the assembled client runtime. Embedding frontends call its
// services directly; the app itself only manages the session-bound
// background machinery.
type App struct {
	sessions *session.Manager
	ledger   *ledger.Ledger
	center   *notify.Center
	channel  *realtime.Channel
	logger   *logger.Logger

	mu           sync.Mutex
	stopRealtime context.CancelFunc
}

// NewApp wires the client runtime from its already-constructed parts.
func NewApp(sessions *session.Manager, jobLedger *ledger.Ledger, center *notify.Center, channel *realtime.Channel, log *logger.Logger) *App {
	return &App{sessions: sessions, ledger: jobLedger, center: center, channel: channel, logger: log}
}

// Sessions exposes authentication and profile operations.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Ledger exposes job and bid operations.
func (a *App) Ledger() *ledger.Ledger { return a.ledger }

// Notifications exposes the notification center.
func (a *App) Notifications() *notify.Center { return a.center }

// Run restores a persisted session if one exists, starts the realtime side
// when authenticated, and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	err := a.sessions.Restore(ctx)
	switch {
	case err == nil:
		a.logger.Info().Msg("session restored")
		a.startRealtime(ctx)
	case errors.Is(err, store.ErrNoStoredSession):
		a.logger.Info().Msg("no persisted session, starting anonymous")
	case errors.Is(err, session.ErrSessionExpired):
		a.logger.Info().Msg("persisted session expired, starting anonymous")
	default:
		return fmt.Errorf("restore session: %w", err)
	}

	<-ctx.Done()
	a.stop()
	return nil
}

// Login authenticates and brings up the realtime subscription for the new
// session.
func (a *App) Login(ctx context.Context, username, password string) error {
	if _, err := a.sessions.Login(ctx, username, password); err != nil {
		return err
	}
	a.startRealtime(ctx)
	return nil
}

// Logout tears down the realtime subscription and clears the session.
func (a *App) Logout(ctx context.Context) {
	a.stop()
	a.sessions.Logout(ctx)
}

func (a *App) startRealtime(ctx context.Context) {
	identity := a.sessions.Identity()
	if identity == nil {
		a.logger.Warn().Msg("no identity available, realtime disabled")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopRealtime != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	worker := workers.NewRealtimeWorker(a.channel, a.center, identity.Username, a.logger)
	if err := workers.NewWorkers(worker).Run(runCtx); err != nil {
		a.logger.Err(err).Msg("failed to start background workers")
		cancel()
		return
	}
	a.stopRealtime = cancel
}

func (a *App) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopRealtime != nil {
		a.stopRealtime()
		a.stopRealtime = nil
	}
}
