// SPDX-License-Identifier: Apache-2.0

// Package realtime maintains the client's websocket subscription to a
// notification channel.
//
// A [Channel] dials ws/chat/{channel}/ under the configured websocket base
// URL and delivers every frame, decoded as a [models.Event], to the handler
// in arrival order. A dropped connection moves the channel to the
// reconnecting state and redials at a fixed interval, indefinitely, until
// either the dial succeeds or [Channel.Disconnect] is called. Events missed
// while disconnected are not replayed; the notification center backfills
// them from the REST API.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/ashvale/go-craft-market/internal/config"
	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/models"
)

// State is the channel's connection state.
type State int

const (
	// StateClosed means the channel is not running.
	StateClosed State = iota

	// StateConnecting means the first dial is in progress.
	StateConnecting

	// StateOpen means the websocket is established and events flow.
	StateOpen

	// StateReconnecting means the connection dropped and redials are
	// scheduled.
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// EventHandler receives decoded events in arrival order. It is invoked from
// the channel's read goroutine; a slow handler delays subsequent events.
type EventHandler func(models.Event)

// Channel is a reconnecting websocket subscription.
type Channel struct {
	cfg    config.Realtime
	logger *logger.Logger

	mu     sync.Mutex
	state  State
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// NewChannel constructs an idle channel. Call Connect to start it.
func NewChannel(cfg config.Realtime, log *logger.Logger) *Channel {
	return &Channel{cfg: cfg, logger: log}
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect starts the subscription to the named channel and returns once the
// background dial loop is running. Events are delivered to onEvent until
// Disconnect is called; connection drops are handled internally.
func (c *Channel) Connect(ctx context.Context, channelID string, onEvent EventHandler) error {
	if onEvent == nil {
		return fmt.Errorf("nil event handler")
	}

	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.state = StateConnecting
	c.cancel = cancel
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.run(runCtx, c.endpoint(channelID), onEvent)
	return nil
}

// Disconnect stops the subscription and waits for the read loop to exit.
// It is idempotent; no reconnection is attempted afterwards.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	cancel, conn, done := c.cancel, c.conn, c.done
	c.state = StateClosed
	c.conn = nil
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	if conn != nil {
		_ = conn.Close()
	}
	<-done
}

// Send writes a JSON frame to the server. When the channel is not open the
// frame is dropped silently; realtime traffic is advisory and the REST API
// remains the source of truth.
func (c *Channel) Send(v any) error {
	c.mu.Lock()
	conn, state := c.conn, c.state
	c.mu.Unlock()

	if state != StateOpen || conn == nil {
		c.logger.Debug().Str("state", state.String()).Msg("dropping frame, channel not open")
		return nil
	}
	if err := conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (c *Channel) endpoint(channelID string) string {
	return fmt.Sprintf("%s/ws/chat/%s/", strings.TrimRight(c.cfg.URL, "/"), channelID)
}

// run owns the connection for the channel's whole lifetime: dial, pump,
// redial. It exits only when ctx is cancelled.
func (c *Channel) run(ctx context.Context, endpoint string, onEvent EventHandler) {
	defer close(c.done)

	for {
		backoff := retry.NewConstant(c.cfg.ReconnectInterval)
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
			if err != nil {
				c.toReconnecting()
				c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("websocket dial failed")
				return retry.RetryableError(err)
			}
			c.setOpen(conn)
			return nil
		})
		if err != nil {
			// Only context cancellation escapes the constant backoff.
			return
		}

		c.logger.Info().Str("endpoint", endpoint).Msg("websocket connected")
		c.pump(ctx, onEvent)

		if ctx.Err() != nil {
			return
		}
		c.toReconnecting()
		c.logger.Warn().Dur("retry_in", c.cfg.ReconnectInterval).Msg("websocket connection lost")

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectInterval):
		}
	}
}

// pump reads frames until the connection fails, decoding each into an event
// for the handler. Undecodable frames are logged and skipped.
func (c *Channel) pump(ctx context.Context, onEvent EventHandler) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Debug().Err(err).Msg("websocket read failed")
			}
			_ = conn.Close()
			return
		}

		var event models.Event
		if err = json.Unmarshal(data, &event); err != nil {
			c.logger.Warn().Err(err).Msg("discarding malformed frame")
			continue
		}
		onEvent(event)
	}
}

func (c *Channel) setOpen(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		// Disconnect won the race; drop the fresh connection.
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.state = StateOpen
}

func (c *Channel) toReconnecting() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return
	}
	c.conn = nil
	c.state = StateReconnecting
}
