package realtime

import "errors"

var (
	// ErrAlreadyConnected indicates Connect was called on a channel that is
	// already running.
	ErrAlreadyConnected = errors.New("channel already connected")

	// ErrClosed indicates the channel was shut down by Disconnect.
	ErrClosed = errors.New("channel closed")
)
