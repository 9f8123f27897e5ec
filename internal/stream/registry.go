package stream

import (
	"sync"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// Callback types, one per channel. Exactly one is set per registry entry,
// matching the entry's key channel.
type (
	// BookHandler receives full order-book replacements.
	BookHandler func(model.OrderBook)

	// TradesHandler receives batches of trades, venue order preserved.
	TradesHandler func([]model.Trade)

	// CandleHandler receives candle updates, one bar at a time.
	CandleHandler func(model.Candle)
)

// handler is the tagged callback stored per key.
type handler struct {
	book   BookHandler
	trades TradesHandler
	candle CandleHandler
}

// registry maps subscription keys to callbacks. It is the single source of
// truth for what should be subscribed right now: entries survive transport
// loss and are removed only by unregister or clear.
type registry struct {
	mu      sync.RWMutex
	entries map[Key]handler
}

func newRegistry() *registry {
	return &registry{entries: make(map[Key]handler)}
}

// register inserts or overwrites; re-registering a key replaces the
// callback, last writer wins.
func (r *registry) register(k Key, h handler) {
	r.mu.Lock()
	r.entries[k] = h
	r.mu.Unlock()
}

// unregister removes a key. Removing an absent key is a no-op.
func (r *registry) unregister(k Key) {
	r.mu.Lock()
	delete(r.entries, k)
	r.mu.Unlock()
}

// lookup returns the callback for a key.
func (r *registry) lookup(k Key) (handler, bool) {
	r.mu.RLock()
	h, ok := r.entries[k]
	r.mu.RUnlock()
	return h, ok
}

// keys returns a snapshot of all registered keys, in no particular order.
func (r *registry) keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	return out
}

// size returns the number of registered keys.
func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// clear removes every entry. Only Disconnect does this.
func (r *registry) clear() {
	r.mu.Lock()
	r.entries = make(map[Key]handler)
	r.mu.Unlock()
}
