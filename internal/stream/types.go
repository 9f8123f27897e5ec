package stream

import "encoding/json"

// Wire channel discriminators of interest.
const (
	channelL2Book      = "l2Book"
	channelTrades      = "trades"
	channelCandle      = "candle"
	channelSubResponse = "subscriptionResponse"
)

// envelope is the outer shape of every inbound frame.
type envelope struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

// command is an outbound subscribe/unsubscribe frame.
type command struct {
	Method       string       `json:"method"`
	Subscription subscription `json:"subscription"`
}

type subscription struct {
	Type     string `json:"type"`
	Coin     string `json:"coin"`
	Interval string `json:"interval,omitempty"`
}

func subscribeCommand(k Key) command {
	return command{Method: "subscribe", Subscription: subscriptionFor(k)}
}

func unsubscribeCommand(k Key) command {
	return command{Method: "unsubscribe", Subscription: subscriptionFor(k)}
}

func subscriptionFor(k Key) subscription {
	return subscription{
		Type:     k.Channel.wireName(),
		Coin:     k.Coin,
		Interval: k.Interval,
	}
}
