package stream

import (
	"log/slog"
	"testing"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

func newTestRouter() (*router, *registry) {
	reg := newRegistry()
	return newRouter(reg, slog.Default()), reg
}

func TestRouter_BookDelivery(t *testing.T) {
	r, reg := newTestRouter()

	var got []model.OrderBook
	reg.register(BookKey("BTC"), handler{book: func(b model.OrderBook) {
		got = append(got, b)
	}})

	frame := `{"channel":"l2Book","data":{"coin":"BTC","levels":[[{"px":"50000","sz":"1","n":1}],[{"px":"50001","sz":"1","n":1}]],"time":1000}}`
	r.route([]byte(frame))

	if len(got) != 1 {
		t.Fatalf("callback invoked %d times, want exactly 1", len(got))
	}
	book := got[0]
	if book.Coin != "BTC" || book.Time != 1000 {
		t.Errorf("book = %+v", book)
	}
	if len(book.Bids) != 1 || book.Bids[0].Price != 50000 {
		t.Errorf("Bids = %+v", book.Bids)
	}
	if len(book.Asks) != 1 || book.Asks[0].Price != 50001 {
		t.Errorf("Asks = %+v", book.Asks)
	}
}

func TestRouter_ChannelMismatchNotDelivered(t *testing.T) {
	r, reg := newTestRouter()

	invoked := 0
	reg.register(TradesKey("ETH"), handler{trades: func([]model.Trade) { invoked++ }})

	// A book message for the same coin must not reach the trades callback.
	frame := `{"channel":"l2Book","data":{"coin":"ETH","levels":[[],[]],"time":5}}`
	r.route([]byte(frame))

	if invoked != 0 {
		t.Errorf("trades callback invoked %d times, want 0", invoked)
	}
	if s := r.stats(); s.Unmatched != 1 {
		t.Errorf("Unmatched = %d, want 1", s.Unmatched)
	}
}

func TestRouter_TradesBatchToSingleCallback(t *testing.T) {
	r, reg := newTestRouter()

	var batches [][]model.Trade
	reg.register(TradesKey("ETH"), handler{trades: func(ts []model.Trade) {
		batches = append(batches, ts)
	}})

	frame := `{"channel":"trades","data":[
		{"coin":"ETH","side":"B","px":"3000","sz":"1","time":1,"tid":10},
		{"coin":"ETH","side":"A","px":"3001","sz":"2","time":2,"tid":11}
	]}`
	r.route([]byte(frame))

	if len(batches) != 1 {
		t.Fatalf("callback invoked %d times, want 1 (whole batch)", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batches[0]))
	}
	if batches[0][0].Side != model.SideBuy || batches[0][1].Side != model.SideSell {
		t.Errorf("sides = %v/%v", batches[0][0].Side, batches[0][1].Side)
	}
}

func TestRouter_CandleKeyIncludesInterval(t *testing.T) {
	r, reg := newTestRouter()

	oneMin := 0
	fiveMin := 0
	reg.register(CandleKey("BTC", "1m"), handler{candle: func(model.Candle) { oneMin++ }})
	reg.register(CandleKey("BTC", "5m"), handler{candle: func(model.Candle) { fiveMin++ }})

	frame := `{"channel":"candle","data":{"t":100,"T":160,"s":"BTC","i":"5m","o":"1","c":"2","h":"3","l":"0.5","v":"10","n":4}}`
	r.route([]byte(frame))

	if oneMin != 0 {
		t.Errorf("1m callback invoked %d times, want 0", oneMin)
	}
	if fiveMin != 1 {
		t.Errorf("5m callback invoked %d times, want 1", fiveMin)
	}
}

func TestRouter_MalformedFrameDropped(t *testing.T) {
	r, reg := newTestRouter()

	invoked := 0
	reg.register(BookKey("BTC"), handler{book: func(model.OrderBook) { invoked++ }})

	r.route([]byte("this is not json"))
	r.route([]byte(`{"channel":"l2Book","data":"not an object"}`))
	r.route([]byte(`{"channel":"l2Book","data":{"coin":"BTC","levels":[[{"px":"garbage","sz":"1"}],[]],"time":1}}`))

	if invoked != 0 {
		t.Errorf("callback invoked %d times, want 0", invoked)
	}
	if s := r.stats(); s.ParseErrors != 3 {
		t.Errorf("ParseErrors = %d, want 3", s.ParseErrors)
	}
}

func TestRouter_SubscriptionResponseDiscarded(t *testing.T) {
	r, reg := newTestRouter()

	invoked := 0
	reg.register(BookKey("BTC"), handler{book: func(model.OrderBook) { invoked++ }})

	r.route([]byte(`{"channel":"subscriptionResponse","data":{"method":"subscribe","subscription":{"type":"l2Book","coin":"BTC"}}}`))

	if invoked != 0 {
		t.Errorf("callback invoked %d times, want 0", invoked)
	}
	s := r.stats()
	if s.ParseErrors != 0 || s.UnknownChannels != 0 {
		t.Errorf("stats = %+v, ack must not count as error or unknown", s)
	}
}

func TestRouter_NoMatchDroppedSilently(t *testing.T) {
	r, _ := newTestRouter()

	// Nothing registered at all; must not panic or error.
	r.route([]byte(`{"channel":"l2Book","data":{"coin":"BTC","levels":[[],[]],"time":1}}`))

	if s := r.stats(); s.Unmatched != 1 {
		t.Errorf("Unmatched = %d, want 1", s.Unmatched)
	}
}

func TestRouter_PanickingCallbackIsolated(t *testing.T) {
	r, reg := newTestRouter()

	reg.register(BookKey("BTC"), handler{book: func(model.OrderBook) {
		panic("subscriber bug")
	}})

	delivered := 0
	reg.register(TradesKey("ETH"), handler{trades: func([]model.Trade) { delivered++ }})

	bookFrame := `{"channel":"l2Book","data":{"coin":"BTC","levels":[[],[]],"time":1}}`
	tradeFrame := `{"channel":"trades","data":[{"coin":"ETH","side":"B","px":"1","sz":"1","time":1,"tid":1}]}`

	// Must not panic out of route.
	r.route([]byte(bookFrame))
	// A later message for a different key still gets delivered.
	r.route([]byte(tradeFrame))

	if delivered != 1 {
		t.Errorf("second subscriber received %d messages, want 1", delivered)
	}
}

func TestRouter_OrderPreservedWithinKey(t *testing.T) {
	r, reg := newTestRouter()

	var times []int64
	reg.register(BookKey("BTC"), handler{book: func(b model.OrderBook) {
		times = append(times, b.Time)
	}})

	for _, ts := range []string{"1", "2", "3"} {
		r.route([]byte(`{"channel":"l2Book","data":{"coin":"BTC","levels":[[],[]],"time":` + ts + `}}`))
	}

	if len(times) != 3 || times[0] != 1 || times[1] != 2 || times[2] != 3 {
		t.Errorf("delivery order = %v, want [1 2 3]", times)
	}
}

func TestRouter_UnknownChannelSkipped(t *testing.T) {
	r, _ := newTestRouter()

	r.route([]byte(`{"channel":"allMids","data":{"mids":{}}}`))

	if s := r.stats(); s.UnknownChannels != 1 {
		t.Errorf("UnknownChannels = %d, want 1", s.UnknownChannels)
	}
}
