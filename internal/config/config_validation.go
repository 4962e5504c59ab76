// SPDX-License-Identifier: Apache-2.0

package config

import (
	"net/url"
	"strings"
)

// validate checks that the defaulted [ClientConfig] satisfies all runtime
// invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *ClientConfig) validate() error {
	u, err := url.Parse(cfg.Adapter.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Realtime.ReconnectInterval <= 0 {
		return ErrInvalidRealtimeConfigs
	}
	if cfg.Realtime.URL != "" {
		wu, err := url.Parse(cfg.Realtime.URL)
		if err != nil || (wu.Scheme != "ws" && wu.Scheme != "wss") {
			return ErrInvalidRealtimeConfigs
		}
	}

	return nil
}
