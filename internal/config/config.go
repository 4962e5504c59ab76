// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// craft-market client. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds the backend addresses and timeouts used by the REST
	// transport layer.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local database settings for durable client state
	// (credential pair, notification cache).
	Storage Storage `envPrefix:"STORAGE_"`

	// Realtime holds the websocket channel settings.
	Realtime Realtime `envPrefix:"REALTIME_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Adapter holds network settings used by the client transport layer.
type Adapter struct {
	// BaseURL is the HTTP base URL of the marketplace backend
	// (e.g. "http://localhost:8000").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the default timeout for outbound client requests
	// (e.g. "15s", "1m").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds local database connection settings for the client.
type Storage struct {
	// DB holds the local database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path used for durable client state
	// (e.g. "craftmarket.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Realtime holds settings for the websocket notification channel.
type Realtime struct {
	// URL is the websocket base URL of the backend
	// (e.g. "ws://localhost:8000"). When empty it is derived from
	// Adapter.BaseURL by swapping the scheme.
	// Env: REALTIME_URL
	URL string `env:"URL"`

	// ReconnectInterval is how long the channel waits before redialling
	// after an unexpected close (e.g. "3s").
	// Env: REALTIME_RECONNECT_INTERVAL
	ReconnectInterval time.Duration `env:"RECONNECT_INTERVAL"`
}

// Default values applied by [GetClientConfig] for fields left unset by every
// source.
const (
	DefaultBaseURL           = "http://localhost:8000"
	DefaultRequestTimeout    = 15 * time.Second
	DefaultDSN               = "craftmarket.db"
	DefaultReconnectInterval = 3 * time.Second
)

// ClientConfig is the validated configuration view consumed by the client
// runtime.
type ClientConfig struct {
	// Adapter contains backend transport settings.
	Adapter Adapter
	// Storage contains local storage settings.
	Storage Storage
	// Realtime contains websocket channel settings.
	Realtime Realtime
}

// GetClientConfig loads, merges, defaults, and validates the client
// configuration from all available sources in the following priority order
// (an earlier source wins; later sources only fill fields still unset):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *ClientConfig or an error if any source fails to
// load or the final config fails validation.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
	if err != nil {
		return nil, err
	}

	clientCfg := &ClientConfig{
		Adapter:  cfg.Adapter,
		Storage:  cfg.Storage,
		Realtime: cfg.Realtime,
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Adapter.BaseURL == "" {
		cfg.Adapter.BaseURL = DefaultBaseURL
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = DefaultDSN
	}
	if cfg.Realtime.ReconnectInterval == 0 {
		cfg.Realtime.ReconnectInterval = DefaultReconnectInterval
	}
	if cfg.Realtime.URL == "" {
		cfg.Realtime.URL = deriveWebsocketURL(cfg.Adapter.BaseURL)
	}
}

// deriveWebsocketURL swaps an http(s) scheme for its websocket counterpart.
func deriveWebsocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
