package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, an unparseable base URL or missing request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidRealtimeConfigs indicates invalid websocket channel settings
	// (for example, a non-ws scheme or zero reconnect interval).
	ErrInvalidRealtimeConfigs = errors.New("invalid realtime configuration")
)
