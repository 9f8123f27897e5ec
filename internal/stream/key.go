package stream

import (
	"errors"
	"fmt"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// Channel is the category of streamed data a subscription covers.
type Channel uint8

const (
	ChannelOrderBook Channel = iota + 1
	ChannelTrades
	ChannelCandle
)

// wireName returns the venue's channel discriminator for c.
func (c Channel) wireName() string {
	switch c {
	case ChannelOrderBook:
		return "l2Book"
	case ChannelTrades:
		return "trades"
	case ChannelCandle:
		return "candle"
	default:
		return "unknown"
	}
}

func (c Channel) String() string { return c.wireName() }

// Key identifies one logical subscription. Interval is set only for
// candle keys. Coins are case-sensitive, exact match.
type Key struct {
	Channel  Channel
	Coin     string
	Interval string
}

// BookKey returns the subscription key for a coin's order book.
func BookKey(coin string) Key {
	return Key{Channel: ChannelOrderBook, Coin: coin}
}

// TradesKey returns the subscription key for a coin's trade feed.
func TradesKey(coin string) Key {
	return Key{Channel: ChannelTrades, Coin: coin}
}

// CandleKey returns the subscription key for a coin's candle stream at the
// given interval.
func CandleKey(coin, interval string) Key {
	return Key{Channel: ChannelCandle, Coin: coin, Interval: interval}
}

// Validate checks key well-formedness.
func (k Key) Validate() error {
	if k.Coin == "" {
		return errors.New("subscription key requires a coin")
	}

	switch k.Channel {
	case ChannelOrderBook, ChannelTrades:
		if k.Interval != "" {
			return fmt.Errorf("%s subscription does not take an interval", k.Channel)
		}
	case ChannelCandle:
		if !model.IsValidInterval(k.Interval) {
			return fmt.Errorf("invalid candle interval %q", k.Interval)
		}
	default:
		return fmt.Errorf("unknown channel %d", k.Channel)
	}

	return nil
}

func (k Key) String() string {
	if k.Interval != "" {
		return k.Channel.String() + "/" + k.Coin + "/" + k.Interval
	}
	return k.Channel.String() + "/" + k.Coin
}
