package market

import (
	"errors"
	"sync"
	"testing"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

func TestStore_SetOrderBookStaleGuard(t *testing.T) {
	s := NewStore("BTC", "1m", 0)

	s.SetOrderBook(model.OrderBook{Coin: "BTC", Time: 200, Bids: []model.PriceLevel{{Price: 100}}})
	s.SetOrderBook(model.OrderBook{Coin: "BTC", Time: 100, Bids: []model.PriceLevel{{Price: 50}}})

	b, ok := s.OrderBook()
	if !ok {
		t.Fatal("OrderBook not ok")
	}
	if b.Time != 200 {
		t.Errorf("Time = %d, want 200 (stale update dropped)", b.Time)
	}
	if b.Bids[0].Price != 100 {
		t.Errorf("top bid = %v, want 100", b.Bids[0].Price)
	}
}

func TestStore_OrderBookBeforeFirstUpdate(t *testing.T) {
	s := NewStore("BTC", "1m", 0)
	if _, ok := s.OrderBook(); ok {
		t.Error("OrderBook ok before any update")
	}
}

func TestStore_OrderBookNormalized(t *testing.T) {
	s := NewStore("BTC", "1m", 0)

	s.SetOrderBook(model.OrderBook{
		Coin: "BTC",
		Time: 1,
		Bids: []model.PriceLevel{{Price: 99}, {Price: 100}},
		Asks: []model.PriceLevel{{Price: 102}, {Price: 101}},
	})

	b, _ := s.OrderBook()
	if b.Bids[0].Price != 100 || b.Asks[0].Price != 101 {
		t.Errorf("top = %v/%v, want 100/101", b.Bids[0].Price, b.Asks[0].Price)
	}
}

func TestStore_TradesFlow(t *testing.T) {
	s := NewStore("BTC", "1m", 5)

	s.SetTrades(tradesWithTIDs(3, 2, 1)) // snapshot newest-first
	s.AddTrades(tradesWithTIDs(4, 5))    // streamed batch oldest-first

	got := s.Trades()
	want := []int64{5, 4, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, tid := range want {
		if got[i].TID != tid {
			t.Errorf("Trades[%d].TID = %d, want %d", i, got[i].TID, tid)
		}
	}
}

func TestStore_CandlesFlow(t *testing.T) {
	s := NewStore("BTC", "1m", 0)

	s.SetCandles([]model.Candle{candleAt(100, 1), candleAt(200, 2)})
	s.MergeCandle(candleAt(200, 2.5))
	s.MergeCandle(candleAt(300, 3))

	got := s.Candles()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].Close != 2.5 {
		t.Errorf("candle[1].Close = %v, want 2.5", got[1].Close)
	}
}

func TestStore_LastPriceFallbacks(t *testing.T) {
	s := NewStore("BTC", "1m", 0)

	if got := s.LastPrice(); got != 0 {
		t.Errorf("LastPrice on empty store = %v, want 0", got)
	}

	s.SetCandles([]model.Candle{candleAt(100, 42)})
	if got := s.LastPrice(); got != 42 {
		t.Errorf("LastPrice = %v, want 42 (candle close)", got)
	}

	s.SetOrderBook(model.OrderBook{
		Time: 1,
		Bids: []model.PriceLevel{{Price: 100}},
		Asks: []model.PriceLevel{{Price: 102}},
	})
	if got := s.LastPrice(); got != 101 {
		t.Errorf("LastPrice = %v, want 101 (book mid)", got)
	}

	s.AddTrades([]model.Trade{{TID: 1, Price: 105}})
	if got := s.LastPrice(); got != 105 {
		t.Errorf("LastPrice = %v, want 105 (last trade)", got)
	}
}

func TestStore_AccountState(t *testing.T) {
	s := NewStore("BTC", "1m", 0)

	if _, ok := s.AccountState(); ok {
		t.Error("AccountState ok before load")
	}

	s.SetAccountState(model.AccountState{AccountValue: 1000})
	a, ok := s.AccountState()
	if !ok || a.AccountValue != 1000 {
		t.Errorf("AccountState = %+v ok=%v", a, ok)
	}
}

func TestStore_Status(t *testing.T) {
	s := NewStore("BTC", "1m", 0)

	loading, lastErr, _ := s.Status()
	if !loading || lastErr != nil {
		t.Errorf("initial status = %v/%v, want loading, no error", loading, lastErr)
	}

	s.SetLoading(false)
	feedErr := errors.New("feed down")
	s.SetError(feedErr)

	loading, lastErr, _ = s.Status()
	if loading || !errors.Is(lastErr, feedErr) {
		t.Errorf("status = %v/%v", loading, lastErr)
	}

	s.SetError(nil)
	if _, lastErr, _ := s.Status(); lastErr != nil {
		t.Errorf("error not cleared: %v", lastErr)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore("BTC", "1m", 50)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			for j := int64(0); j < 100; j++ {
				s.SetOrderBook(model.OrderBook{Time: n*1000 + j, Bids: []model.PriceLevel{{Price: 1}}})
				s.AddTrades(tradesWithTIDs(n*1000 + j))
				s.MergeCandle(candleAt(j*60, float64(j)))
			}
		}(int64(i))
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.OrderBook()
				s.Trades()
				s.Candles()
				s.LastPrice()
			}
		}()
	}
	wg.Wait()

	if s.trades.Len() > 50 {
		t.Errorf("trade tape grew past capacity: %d", s.trades.Len())
	}
}
