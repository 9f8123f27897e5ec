package market

import (
	"sync"
	"time"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// Store holds the latest market state for one coin. Stream callbacks and
// REST snapshot loaders write into it; readers get copies, never interior
// references.
type Store struct {
	mu sync.RWMutex

	coin     string
	interval string

	book      model.OrderBook
	hasBook   bool
	trades    *TradeBuffer
	candles   *CandleSeries
	account   model.AccountState
	hasAcct   bool
	loading   bool
	lastErr   error
	updatedAt time.Time
}

// NewStore creates a Store for one coin and candle interval. tradeCapacity
// bounds the trade tape; zero means DefaultTradeCapacity.
func NewStore(coin, interval string, tradeCapacity int) *Store {
	return &Store{
		coin:     coin,
		interval: interval,
		trades:   NewTradeBuffer(tradeCapacity),
		candles:  NewCandleSeries(),
		loading:  true,
	}
}

// Coin returns the coin this store tracks.
func (s *Store) Coin() string { return s.coin }

// Interval returns the candle interval this store tracks.
func (s *Store) Interval() string { return s.interval }

// SetOrderBook replaces the book wholesale. Updates carrying a timestamp
// older than the current book are stale reorderings and are dropped.
func (s *Store) SetOrderBook(b model.OrderBook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasBook && b.Time < s.book.Time {
		return
	}

	NormalizeBook(&b)
	s.book = b
	s.hasBook = true
	s.touch()
}

// OrderBook returns a copy of the current book. ok is false before the
// first update arrives.
func (s *Store) OrderBook() (model.OrderBook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasBook {
		return model.OrderBook{}, false
	}
	b := s.book
	b.Bids = append([]model.PriceLevel(nil), s.book.Bids...)
	b.Asks = append([]model.PriceLevel(nil), s.book.Asks...)
	return b, true
}

// AddTrades prepends a streamed batch to the tape.
func (s *Store) AddTrades(batch []model.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades.Prepend(batch)
	s.touch()
}

// SetTrades replaces the tape with a REST snapshot (newest first).
func (s *Store) SetTrades(trades []model.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trades.Replace(trades)
	s.touch()
}

// Trades returns a copy of the tape, newest first.
func (s *Store) Trades() []model.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trades.Snapshot()
}

// MergeCandle applies a streamed candle update.
func (s *Store) MergeCandle(c model.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candles.Merge(c)
	s.touch()
}

// SetCandles replaces the series with a REST snapshot.
func (s *Store) SetCandles(candles []model.Candle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candles.Set(candles)
	s.touch()
}

// Candles returns a copy of the series, oldest first.
func (s *Store) Candles() []model.Candle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candles.Snapshot()
}

// LastPrice returns the most recent trade price, falling back to the book
// midpoint, then to the latest candle close.
func (s *Store) LastPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.trades.Len() > 0 {
		return s.trades.Snapshot()[0].Price
	}
	if s.hasBook {
		if mid := MidPrice(s.book); mid > 0 {
			return mid
		}
	}
	if c, ok := s.candles.Latest(); ok {
		return c.Close
	}
	return 0
}

// SetAccountState stores the user's account snapshot.
func (s *Store) SetAccountState(a model.AccountState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account = a
	s.hasAcct = true
	s.touch()
}

// AccountState returns the account snapshot. ok is false when no account
// was ever loaded.
func (s *Store) AccountState() (model.AccountState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.hasAcct
}

// SetLoading flips the initial-load flag.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// SetError records the most recent feed error; nil clears it.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Status reports the loading flag, last error, and last update time.
func (s *Store) Status() (loading bool, lastErr error, updatedAt time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading, s.lastErr, s.updatedAt
}

func (s *Store) touch() {
	s.updatedAt = time.Now()
}
