package market

import (
	"testing"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

func TestNormalizeBook_Orders(t *testing.T) {
	b := model.OrderBook{
		Coin: "BTC",
		Bids: []model.PriceLevel{
			{Price: 100, Size: 1},
			{Price: 102, Size: 2},
			{Price: 101, Size: 3},
		},
		Asks: []model.PriceLevel{
			{Price: 105, Size: 1},
			{Price: 103, Size: 2},
			{Price: 104, Size: 3},
		},
	}

	NormalizeBook(&b)

	wantBids := []float64{102, 101, 100}
	for i, p := range wantBids {
		if b.Bids[i].Price != p {
			t.Errorf("Bids[%d].Price = %v, want %v", i, b.Bids[i].Price, p)
		}
	}
	wantAsks := []float64{103, 104, 105}
	for i, p := range wantAsks {
		if b.Asks[i].Price != p {
			t.Errorf("Asks[%d].Price = %v, want %v", i, b.Asks[i].Price, p)
		}
	}
}

func TestNormalizeBook_DuplicatePriceKeepsLast(t *testing.T) {
	b := model.OrderBook{
		Bids: []model.PriceLevel{
			{Price: 100, Size: 1},
			{Price: 100, Size: 7},
		},
	}

	NormalizeBook(&b)

	if len(b.Bids) != 1 {
		t.Fatalf("len(Bids) = %d, want 1", len(b.Bids))
	}
	if b.Bids[0].Size != 7 {
		t.Errorf("Size = %v, want 7 (later entry wins)", b.Bids[0].Size)
	}
}

func TestTopOfBook(t *testing.T) {
	b := model.OrderBook{
		Bids: []model.PriceLevel{{Price: 100}, {Price: 99}},
		Asks: []model.PriceLevel{{Price: 101}, {Price: 102}},
	}

	bid, ask, ok := TopOfBook(b)
	if !ok {
		t.Fatal("TopOfBook not ok")
	}
	if bid.Price != 100 || ask.Price != 101 {
		t.Errorf("top = %v/%v, want 100/101", bid.Price, ask.Price)
	}
	if got := MidPrice(b); got != 100.5 {
		t.Errorf("MidPrice = %v, want 100.5", got)
	}
	if got := Spread(b); got != 1 {
		t.Errorf("Spread = %v, want 1", got)
	}

	if _, _, ok := TopOfBook(model.OrderBook{}); ok {
		t.Error("TopOfBook ok on empty book")
	}
	if got := MidPrice(model.OrderBook{}); got != 0 {
		t.Errorf("MidPrice on empty book = %v, want 0", got)
	}
}

func TestClampDepth(t *testing.T) {
	b := model.OrderBook{
		Bids: []model.PriceLevel{{Price: 3}, {Price: 2}, {Price: 1}},
		Asks: []model.PriceLevel{{Price: 4}, {Price: 5}},
	}

	ClampDepth(&b, 2)

	if len(b.Bids) != 2 || len(b.Asks) != 2 {
		t.Errorf("depths = %d/%d, want 2/2", len(b.Bids), len(b.Asks))
	}
	if b.Bids[0].Price != 3 {
		t.Errorf("top bid = %v, want 3 (clamp keeps top)", b.Bids[0].Price)
	}

	ClampDepth(&b, 0) // no-op
	if len(b.Bids) != 2 {
		t.Errorf("depth after zero clamp = %d, want 2", len(b.Bids))
	}
}
