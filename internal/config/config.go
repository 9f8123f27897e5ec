package config

import "time"

// Config is the root configuration for a terminal instance.
type Config struct {
	Venue    VenueConfig    `yaml:"venue"`
	Stream   StreamConfig   `yaml:"stream"`
	Terminal TerminalConfig `yaml:"terminal"`
}

// VenueConfig holds the Hyperliquid API endpoints.
type VenueConfig struct {
	RestURL string        `yaml:"rest_url"`
	WSURL   string        `yaml:"ws_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StreamConfig holds data delivery and reconnection settings.
type StreamConfig struct {
	DeliveryMode string        `yaml:"delivery_mode"` // "streaming" or "polling"
	PollInterval time.Duration `yaml:"poll_interval"`

	ReconnectBaseDelay   time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay    time.Duration `yaml:"reconnect_max_delay"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`

	ReadyDelay     time.Duration `yaml:"ready_delay"`
	SendRetryDelay time.Duration `yaml:"send_retry_delay"`
	BufferSize     int           `yaml:"buffer_size"`
}

// TerminalConfig holds what the terminal displays.
type TerminalConfig struct {
	Coin            string `yaml:"coin"`
	Interval        string `yaml:"interval"`
	Depth           int    `yaml:"depth"`             // Book levels shown per side
	TradeBufferSize int    `yaml:"trade_buffer_size"` // Trade tape capacity
	User            string `yaml:"user"`              // Wallet address for account state ("" disables)
}
