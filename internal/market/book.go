package market

import (
	"sort"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// NormalizeBook enforces the book ordering invariant: bids descending by
// price, asks ascending, duplicate price levels collapsed to the last seen.
// The venue sends books already ordered, so this is usually a no-op pass.
func NormalizeBook(b *model.OrderBook) {
	b.Bids = dedupeLevels(b.Bids)
	b.Asks = dedupeLevels(b.Asks)

	sort.SliceStable(b.Bids, func(i, j int) bool {
		return b.Bids[i].Price > b.Bids[j].Price
	})
	sort.SliceStable(b.Asks, func(i, j int) bool {
		return b.Asks[i].Price < b.Asks[j].Price
	})
}

// dedupeLevels collapses repeated prices, keeping the later entry.
func dedupeLevels(levels []model.PriceLevel) []model.PriceLevel {
	if len(levels) < 2 {
		return levels
	}

	seen := make(map[float64]int, len(levels))
	out := levels[:0]
	for _, lvl := range levels {
		if i, ok := seen[lvl.Price]; ok {
			out[i] = lvl
			continue
		}
		seen[lvl.Price] = len(out)
		out = append(out, lvl)
	}
	return out
}

// TopOfBook returns the best bid and ask. ok is false when either side
// is empty.
func TopOfBook(b model.OrderBook) (bid, ask model.PriceLevel, ok bool) {
	if len(b.Bids) == 0 || len(b.Asks) == 0 {
		return model.PriceLevel{}, model.PriceLevel{}, false
	}
	return b.Bids[0], b.Asks[0], true
}

// MidPrice returns the book midpoint, or 0 when a side is empty.
func MidPrice(b model.OrderBook) float64 {
	bid, ask, ok := TopOfBook(b)
	if !ok {
		return 0
	}
	return (bid.Price + ask.Price) / 2
}

// Spread returns the ask-bid gap, or 0 when a side is empty.
func Spread(b model.OrderBook) float64 {
	bid, ask, ok := TopOfBook(b)
	if !ok {
		return 0
	}
	return ask.Price - bid.Price
}

// ClampDepth trims both sides to at most n levels from the top.
func ClampDepth(b *model.OrderBook, n int) {
	if n <= 0 {
		return
	}
	if len(b.Bids) > n {
		b.Bids = b.Bids[:n]
	}
	if len(b.Asks) > n {
		b.Asks = b.Asks[:n]
	}
}
