package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a backend base URL (e.g. "http://localhost:8000")
//	-ws websocket base URL (e.g. "ws://localhost:8000")
//	-d local database path
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-reconnect-interval realtime reconnect interval (e.g., "3s")
func ParseFlags() *StructuredConfig {
	var baseURL string
	var wsURL string
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var reconnectInterval time.Duration

	flag.StringVar(&baseURL, "a", "", "Backend base URL")
	flag.StringVar(&wsURL, "ws", "", "Websocket base URL")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&reconnectInterval, "reconnect-interval", 0, "Realtime reconnect interval (e.g., 3s)")

	flag.Parse()

	return &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Realtime: Realtime{
			URL:               wsURL,
			ReconnectInterval: reconnectInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
