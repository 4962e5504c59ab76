package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *ClientConfig {
	return &ClientConfig{
		Adapter: Adapter{
			BaseURL:        "http://localhost:8000",
			RequestTimeout: 15 * time.Second,
		},
		Storage: Storage{DB: DB{DSN: "craftmarket.db"}},
		Realtime: Realtime{
			URL:               "ws://localhost:8000",
			ReconnectInterval: 3 * time.Second,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *ClientConfig)
		want   error
	}{
		{
			name:   "missing adapter host",
			mutate: func(cfg *ClientConfig) { cfg.Adapter.BaseURL = "http://" },
			want:   ErrInvalidAdapterConfigs,
		},
		{
			name:   "zero request timeout",
			mutate: func(cfg *ClientConfig) { cfg.Adapter.RequestTimeout = 0 },
			want:   ErrInvalidAdapterConfigs,
		},
		{
			name:   "empty dsn",
			mutate: func(cfg *ClientConfig) { cfg.Storage.DB.DSN = "" },
			want:   ErrInvalidStorageConfigs,
		},
		{
			name:   "in-memory dsn",
			mutate: func(cfg *ClientConfig) { cfg.Storage.DB.DSN = "file::memory:" },
			want:   ErrInvalidStorageConfigs,
		},
		{
			name:   "http scheme on websocket url",
			mutate: func(cfg *ClientConfig) { cfg.Realtime.URL = "http://localhost:8000" },
			want:   ErrInvalidRealtimeConfigs,
		},
		{
			name:   "zero reconnect interval",
			mutate: func(cfg *ClientConfig) { cfg.Realtime.ReconnectInterval = 0 },
			want:   ErrInvalidRealtimeConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.validate(), tt.want)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &ClientConfig{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultBaseURL, cfg.Adapter.BaseURL)
	assert.Equal(t, DefaultRequestTimeout, cfg.Adapter.RequestTimeout)
	assert.Equal(t, DefaultDSN, cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultReconnectInterval, cfg.Realtime.ReconnectInterval)
	assert.Equal(t, "ws://localhost:8000", cfg.Realtime.URL)
}

func TestApplyDefaults_DerivesWebsocketURLFromBaseURL(t *testing.T) {
	cfg := &ClientConfig{}
	cfg.Adapter.BaseURL = "https://market.example.com"
	cfg.applyDefaults()

	assert.Equal(t, "wss://market.example.com", cfg.Realtime.URL)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Adapter.BaseURL = "http://backend.internal:9000"
	cfg.applyDefaults()

	assert.Equal(t, "http://backend.internal:9000", cfg.Adapter.BaseURL)
}

// An earlier source takes precedence; a later source only fills fields the
// earlier ones left unset.
func TestBuild_MergePriority(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Adapter: Adapter{BaseURL: "http://from-env:8000"}},
		&StructuredConfig{
			Adapter: Adapter{BaseURL: "http://from-json:8000", RequestTimeout: 30 * time.Second},
			Storage: Storage{DB: DB{DSN: "from-json.db"}},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.Adapter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "from-json.db", cfg.Storage.DB.DSN)
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"adapter": {"base_url": "http://backend:8000", "request_timeout": "30s"},
		"storage": {"db": {"dsn": "market.db"}},
		"realtime": {"url": "wss://backend:8000", "reconnect_interval": "5s"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:8000", cfg.Adapter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "market.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "wss://backend:8000", cfg.Realtime.URL)
	assert.Equal(t, 5*time.Second, cfg.Realtime.ReconnectInterval)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
