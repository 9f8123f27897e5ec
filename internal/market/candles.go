package market

import (
	"sort"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// CandleSeries keeps candles sorted ascending by open time. Updates for an
// open time already present replace that candle in place, which is how
// streaming updates to the still-forming candle apply.
type CandleSeries struct {
	candles []model.Candle
}

// NewCandleSeries creates an empty series.
func NewCandleSeries() *CandleSeries {
	return &CandleSeries{}
}

// Set replaces the series with a snapshot, sorting it and collapsing
// duplicate open times to the last occurrence.
func (s *CandleSeries) Set(candles []model.Candle) {
	cp := append([]model.Candle(nil), candles...)
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].OpenTime < cp[j].OpenTime
	})

	out := cp[:0]
	for _, c := range cp {
		if n := len(out); n > 0 && out[n-1].OpenTime == c.OpenTime {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	s.candles = out
}

// Merge inserts or replaces a single candle, keeping the series sorted.
func (s *CandleSeries) Merge(c model.Candle) {
	i := sort.Search(len(s.candles), func(i int) bool {
		return s.candles[i].OpenTime >= c.OpenTime
	})

	if i < len(s.candles) && s.candles[i].OpenTime == c.OpenTime {
		s.candles[i] = c
		return
	}

	s.candles = append(s.candles, model.Candle{})
	copy(s.candles[i+1:], s.candles[i:])
	s.candles[i] = c
}

// Len returns the number of candles held.
func (s *CandleSeries) Len() int {
	return len(s.candles)
}

// Snapshot returns a copy of the series, oldest first.
func (s *CandleSeries) Snapshot() []model.Candle {
	return append([]model.Candle(nil), s.candles...)
}

// Latest returns the most recent candle. ok is false on an empty series.
func (s *CandleSeries) Latest() (model.Candle, bool) {
	if len(s.candles) == 0 {
		return model.Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Trim drops the oldest candles so at most n remain.
func (s *CandleSeries) Trim(n int) {
	if n >= 0 && len(s.candles) > n {
		s.candles = append(s.candles[:0:0], s.candles[len(s.candles)-n:]...)
	}
}
