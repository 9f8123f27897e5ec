package stream

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/api"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// router parses inbound frames, derives the subscription key, and invokes
// the matching callback synchronously. Frame order within one key is the
// delivery order to that key's callback.
type router struct {
	reg    *registry
	logger *slog.Logger

	mu              sync.Mutex
	received        int64
	routed          int64
	parseErrors     int64
	unmatched       int64
	unknownChannels int64
}

// RouterStats contains routing counters.
type RouterStats struct {
	Received        int64
	Routed          int64
	ParseErrors     int64
	Unmatched       int64
	UnknownChannels int64
}

func newRouter(reg *registry, logger *slog.Logger) *router {
	if logger == nil {
		logger = slog.Default()
	}
	return &router{reg: reg, logger: logger}
}

func (r *router) stats() RouterStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RouterStats{
		Received:        r.received,
		Routed:          r.routed,
		ParseErrors:     r.parseErrors,
		Unmatched:       r.unmatched,
		UnknownChannels: r.unknownChannels,
	}
}

func (r *router) count(field *int64) {
	r.mu.Lock()
	*field++
	r.mu.Unlock()
}

// route handles one raw inbound frame. It never panics and never returns
// an error: a bad frame is logged and dropped so a single malformed
// message can never take down the connection.
func (r *router) route(data []byte) {
	r.count(&r.received)

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.logger.Warn("dropping malformed frame", "error", err)
		r.count(&r.parseErrors)
		return
	}

	switch env.Channel {
	case channelSubResponse:
		// Acknowledgement, not data.
		return

	case channelL2Book:
		r.routeBook(env.Data)

	case channelTrades:
		r.routeTrades(env.Data)

	case channelCandle:
		r.routeCandle(env.Data)

	default:
		r.logger.Debug("skipping unknown channel", "channel", env.Channel)
		r.count(&r.unknownChannels)
	}
}

func (r *router) routeBook(data json.RawMessage) {
	var wire api.BookData
	if err := json.Unmarshal(data, &wire); err != nil {
		r.logger.Warn("dropping malformed book payload", "error", err)
		r.count(&r.parseErrors)
		return
	}

	key := BookKey(wire.Coin)
	h, ok := r.reg.lookup(key)
	if !ok || h.book == nil {
		// The subscription may have just been removed.
		r.count(&r.unmatched)
		return
	}

	book, err := wire.ToModel()
	if err != nil {
		r.logger.Warn("dropping unparseable book payload", "key", key.String(), "error", err)
		r.count(&r.parseErrors)
		return
	}

	r.dispatch(key, func() { h.book(book) })
}

func (r *router) routeTrades(data json.RawMessage) {
	var wire []api.TradeData
	if err := json.Unmarshal(data, &wire); err != nil {
		r.logger.Warn("dropping malformed trades payload", "error", err)
		r.count(&r.parseErrors)
		return
	}
	if len(wire) == 0 {
		return
	}

	// The whole batch shares one coin; key off the first element.
	key := TradesKey(wire[0].Coin)
	h, ok := r.reg.lookup(key)
	if !ok || h.trades == nil {
		r.count(&r.unmatched)
		return
	}

	trades := make([]model.Trade, 0, len(wire))
	for _, t := range wire {
		trade, err := t.ToModel()
		if err != nil {
			r.logger.Warn("dropping unparseable trade batch", "key", key.String(), "error", err)
			r.count(&r.parseErrors)
			return
		}
		trades = append(trades, trade)
	}

	r.dispatch(key, func() { h.trades(trades) })
}

func (r *router) routeCandle(data json.RawMessage) {
	var wire api.CandleData
	if err := json.Unmarshal(data, &wire); err != nil {
		r.logger.Warn("dropping malformed candle payload", "error", err)
		r.count(&r.parseErrors)
		return
	}

	key := CandleKey(wire.Coin, wire.Interval)
	h, ok := r.reg.lookup(key)
	if !ok || h.candle == nil {
		r.count(&r.unmatched)
		return
	}

	candle, err := wire.ToModel()
	if err != nil {
		r.logger.Warn("dropping unparseable candle payload", "key", key.String(), "error", err)
		r.count(&r.parseErrors)
		return
	}

	r.dispatch(key, func() { h.candle(candle) })
}

// dispatch invokes one callback, isolating panics so one subscriber's
// fault cannot affect delivery to others.
func (r *router) dispatch(k Key, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("subscriber callback panicked", "key", k.String(), "panic", p)
		}
	}()

	fn()
	r.count(&r.routed)
}
