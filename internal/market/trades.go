package market

import "github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"

// DefaultTradeCapacity bounds the trade tape when no capacity is given.
const DefaultTradeCapacity = 100

// TradeBuffer is a bounded newest-first trade tape. When full, the oldest
// trades fall off the tail.
type TradeBuffer struct {
	capacity int
	trades   []model.Trade
}

// NewTradeBuffer creates a buffer holding at most capacity trades.
func NewTradeBuffer(capacity int) *TradeBuffer {
	if capacity <= 0 {
		capacity = DefaultTradeCapacity
	}
	return &TradeBuffer{capacity: capacity}
}

// Prepend inserts a batch at the front, preserving batch order: the last
// trade of the batch ends up deepest of the new entries. Overflow evicts
// from the tail.
func (b *TradeBuffer) Prepend(batch []model.Trade) {
	if len(batch) == 0 {
		return
	}

	merged := make([]model.Trade, 0, len(batch)+len(b.trades))
	// Venue batches arrive oldest-first; reverse so the newest leads.
	for i := len(batch) - 1; i >= 0; i-- {
		merged = append(merged, batch[i])
	}
	merged = append(merged, b.trades...)

	if len(merged) > b.capacity {
		merged = merged[:b.capacity]
	}
	b.trades = merged
}

// Replace discards the buffer contents in favor of a snapshot, which is
// taken to be newest-first already (REST recent-trades order).
func (b *TradeBuffer) Replace(trades []model.Trade) {
	n := len(trades)
	if n > b.capacity {
		n = b.capacity
	}
	b.trades = append(b.trades[:0:0], trades[:n]...)
}

// Len returns the number of buffered trades.
func (b *TradeBuffer) Len() int {
	return len(b.trades)
}

// Snapshot returns a copy of the tape, newest first.
func (b *TradeBuffer) Snapshot() []model.Trade {
	return append([]model.Trade(nil), b.trades...)
}
