package config

import (
	"fmt"
	"strings"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Venue.RestURL, "http://") && !strings.HasPrefix(c.Venue.RestURL, "https://") {
		return fmt.Errorf("venue.rest_url %q: must be an http(s) URL", c.Venue.RestURL)
	}
	if !strings.HasPrefix(c.Venue.WSURL, "ws://") && !strings.HasPrefix(c.Venue.WSURL, "wss://") {
		return fmt.Errorf("venue.ws_url %q: must be a ws(s) URL", c.Venue.WSURL)
	}

	switch c.Stream.DeliveryMode {
	case "streaming", "polling":
	default:
		return fmt.Errorf("stream.delivery_mode %q: must be \"streaming\" or \"polling\"", c.Stream.DeliveryMode)
	}

	if c.Stream.ReconnectBaseDelay > c.Stream.ReconnectMaxDelay {
		return fmt.Errorf("stream.reconnect_base_delay %v exceeds reconnect_max_delay %v",
			c.Stream.ReconnectBaseDelay, c.Stream.ReconnectMaxDelay)
	}

	if c.Terminal.Coin == "" {
		return fmt.Errorf("terminal.coin: required")
	}
	if !model.IsValidInterval(c.Terminal.Interval) {
		return fmt.Errorf("terminal.interval %q: not a supported interval", c.Terminal.Interval)
	}
	if u := c.Terminal.User; u != "" && (!strings.HasPrefix(u, "0x") || len(u) != 42) {
		return fmt.Errorf("terminal.user %q: must be a 0x-prefixed 20-byte address", u)
	}

	return nil
}
