package api

import (
	"fmt"
	"strconv"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// parseDecimal parses a venue decimal string. Empty strings are zero.
func parseDecimal(s, field string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return v, nil
}

// ToModel converts a wire level to a normalized price level.
func (l Level) ToModel() (model.PriceLevel, error) {
	px, err := parseDecimal(l.Px, "px")
	if err != nil {
		return model.PriceLevel{}, err
	}
	sz, err := parseDecimal(l.Sz, "sz")
	if err != nil {
		return model.PriceLevel{}, err
	}
	return model.PriceLevel{Price: px, Size: sz, Orders: l.N}, nil
}

// ToModel converts a wire book to a normalized order book.
func (b BookData) ToModel() (model.OrderBook, error) {
	book := model.OrderBook{
		Coin: b.Coin,
		Bids: make([]model.PriceLevel, 0, len(b.Levels[0])),
		Asks: make([]model.PriceLevel, 0, len(b.Levels[1])),
		Time: b.Time,
	}

	for _, l := range b.Levels[0] {
		lvl, err := l.ToModel()
		if err != nil {
			return model.OrderBook{}, fmt.Errorf("bid level: %w", err)
		}
		book.Bids = append(book.Bids, lvl)
	}
	for _, l := range b.Levels[1] {
		lvl, err := l.ToModel()
		if err != nil {
			return model.OrderBook{}, fmt.Errorf("ask level: %w", err)
		}
		book.Asks = append(book.Asks, lvl)
	}

	return book, nil
}

// ToModel converts a wire trade to a normalized trade. The venue encodes
// the aggressor side as "B" (buy) or "A" (sell).
func (t TradeData) ToModel() (model.Trade, error) {
	px, err := parseDecimal(t.Px, "px")
	if err != nil {
		return model.Trade{}, err
	}
	sz, err := parseDecimal(t.Sz, "sz")
	if err != nil {
		return model.Trade{}, err
	}

	var side model.Side
	switch t.Side {
	case "B":
		side = model.SideBuy
	case "A":
		side = model.SideSell
	default:
		return model.Trade{}, fmt.Errorf("unknown trade side %q", t.Side)
	}

	return model.Trade{
		Coin:  t.Coin,
		Side:  side,
		Price: px,
		Size:  sz,
		Time:  t.Time,
		TID:   t.TID,
		Hash:  t.Hash,
	}, nil
}

// ToModel converts a wire candle to a normalized candle.
func (c CandleData) ToModel() (model.Candle, error) {
	open, err := parseDecimal(c.Open, "o")
	if err != nil {
		return model.Candle{}, err
	}
	high, err := parseDecimal(c.High, "h")
	if err != nil {
		return model.Candle{}, err
	}
	low, err := parseDecimal(c.Low, "l")
	if err != nil {
		return model.Candle{}, err
	}
	closePx, err := parseDecimal(c.Close, "c")
	if err != nil {
		return model.Candle{}, err
	}
	volume, err := parseDecimal(c.Volume, "v")
	if err != nil {
		return model.Candle{}, err
	}

	return model.Candle{
		Coin:      c.Coin,
		Interval:  c.Interval,
		OpenTime:  c.OpenMillis,
		CloseTime: c.CloseMillis,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePx,
		Volume:    volume,
		Trades:    c.Num,
	}, nil
}

// ToModel converts a universe entry to a normalized asset.
func (a AssetData) ToModel() model.Asset {
	return model.Asset{
		Name:         a.Name,
		SzDecimals:   a.SzDecimals,
		MaxLeverage:  a.MaxLeverage,
		OnlyIsolated: a.OnlyIsolated,
	}
}

func (r clearinghouseResponse) toModel() (model.AccountState, error) {
	accountValue, err := parseDecimal(r.MarginSummary.AccountValue, "accountValue")
	if err != nil {
		return model.AccountState{}, err
	}
	totalNtl, err := parseDecimal(r.MarginSummary.TotalNtlPos, "totalNtlPos")
	if err != nil {
		return model.AccountState{}, err
	}
	marginUsed, err := parseDecimal(r.MarginSummary.TotalMarginUsed, "totalMarginUsed")
	if err != nil {
		return model.AccountState{}, err
	}
	withdrawable, err := parseDecimal(r.Withdrawable, "withdrawable")
	if err != nil {
		return model.AccountState{}, err
	}

	state := model.AccountState{
		AccountValue:    accountValue,
		TotalNotional:   totalNtl,
		TotalMarginUsed: marginUsed,
		Withdrawable:    withdrawable,
		Positions:       make([]model.Position, 0, len(r.AssetPositions)),
		Time:            r.Time,
	}

	for _, ap := range r.AssetPositions {
		p := ap.Position
		size, err := parseDecimal(p.Szi, "szi")
		if err != nil {
			return model.AccountState{}, err
		}
		entry, err := parseDecimal(p.EntryPx, "entryPx")
		if err != nil {
			return model.AccountState{}, err
		}
		value, err := parseDecimal(p.PositionValue, "positionValue")
		if err != nil {
			return model.AccountState{}, err
		}
		pnl, err := parseDecimal(p.UnrealizedPnl, "unrealizedPnl")
		if err != nil {
			return model.AccountState{}, err
		}
		margin, err := parseDecimal(p.MarginUsed, "marginUsed")
		if err != nil {
			return model.AccountState{}, err
		}

		state.Positions = append(state.Positions, model.Position{
			Coin:          p.Coin,
			Size:          size,
			EntryPrice:    entry,
			PositionValue: value,
			UnrealizedPnl: pnl,
			Leverage:      p.LeverageDetail.Value,
			MarginUsed:    margin,
		})
	}

	return state, nil
}
