package config

import "time"

const (
	defaultRestURL = "https://api.hyperliquid.xyz/info"
	defaultWSURL   = "wss://api.hyperliquid.xyz/ws"
)

func (c *Config) applyDefaults() {
	if c.Venue.RestURL == "" {
		c.Venue.RestURL = defaultRestURL
	}
	if c.Venue.WSURL == "" {
		c.Venue.WSURL = defaultWSURL
	}
	if c.Venue.Timeout <= 0 {
		c.Venue.Timeout = 10 * time.Second
	}

	if c.Stream.DeliveryMode == "" {
		c.Stream.DeliveryMode = "streaming"
	}
	if c.Stream.PollInterval <= 0 {
		c.Stream.PollInterval = 2 * time.Second
	}
	if c.Stream.ReconnectBaseDelay <= 0 {
		c.Stream.ReconnectBaseDelay = time.Second
	}
	if c.Stream.ReconnectMaxDelay <= 0 {
		c.Stream.ReconnectMaxDelay = 30 * time.Second
	}
	if c.Stream.MaxReconnectAttempts <= 0 {
		c.Stream.MaxReconnectAttempts = 5
	}
	if c.Stream.ReadyDelay <= 0 {
		c.Stream.ReadyDelay = 100 * time.Millisecond
	}
	if c.Stream.SendRetryDelay <= 0 {
		c.Stream.SendRetryDelay = 250 * time.Millisecond
	}
	if c.Stream.BufferSize <= 0 {
		c.Stream.BufferSize = 1024
	}

	if c.Terminal.Coin == "" {
		c.Terminal.Coin = "BTC"
	}
	if c.Terminal.Interval == "" {
		c.Terminal.Interval = "1m"
	}
	if c.Terminal.Depth <= 0 {
		c.Terminal.Depth = 10
	}
	if c.Terminal.TradeBufferSize <= 0 {
		c.Terminal.TradeBufferSize = 100
	}
}
