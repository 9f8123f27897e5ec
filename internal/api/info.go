package api

import (
	"context"
	"fmt"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// Meta fetches the venue's instrument universe.
func (c *Client) Meta(ctx context.Context) ([]model.Asset, error) {
	var resp metaResponse
	if err := c.post(ctx, infoRequest{Type: "meta"}, &resp); err != nil {
		return nil, fmt.Errorf("meta: %w", err)
	}

	assets := make([]model.Asset, 0, len(resp.Universe))
	for _, a := range resp.Universe {
		assets = append(assets, a.ToModel())
	}
	return assets, nil
}

// L2Book fetches a full-depth order book snapshot for one coin.
func (c *Client) L2Book(ctx context.Context, coin string) (*model.OrderBook, error) {
	var resp BookData
	if err := c.post(ctx, infoRequest{Type: "l2Book", Coin: coin}, &resp); err != nil {
		return nil, fmt.Errorf("l2Book %s: %w", coin, err)
	}

	book, err := resp.ToModel()
	if err != nil {
		return nil, fmt.Errorf("l2Book %s: %w", coin, err)
	}
	return &book, nil
}

// RecentTrades fetches the most recent trades for one coin.
func (c *Client) RecentTrades(ctx context.Context, coin string) ([]model.Trade, error) {
	var resp []TradeData
	if err := c.post(ctx, infoRequest{Type: "recentTrades", Coin: coin}, &resp); err != nil {
		return nil, fmt.Errorf("recentTrades %s: %w", coin, err)
	}

	trades := make([]model.Trade, 0, len(resp))
	for _, t := range resp {
		trade, err := t.ToModel()
		if err != nil {
			return nil, fmt.Errorf("recentTrades %s: %w", coin, err)
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// CandleSnapshot fetches historical candles for one coin and interval over
// [startTime, endTime] (ms since epoch).
func (c *Client) CandleSnapshot(ctx context.Context, coin, interval string, startTime, endTime int64) ([]model.Candle, error) {
	if !model.IsValidInterval(interval) {
		return nil, fmt.Errorf("candleSnapshot %s: invalid interval %q", coin, interval)
	}

	req := candleSnapshotRequest{
		Type: "candleSnapshot",
		Req: candleSnapshotIn{
			Coin:      coin,
			Interval:  interval,
			StartTime: startTime,
			EndTime:   endTime,
		},
	}

	var resp []CandleData
	if err := c.post(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("candleSnapshot %s/%s: %w", coin, interval, err)
	}

	candles := make([]model.Candle, 0, len(resp))
	for _, cd := range resp {
		candle, err := cd.ToModel()
		if err != nil {
			return nil, fmt.Errorf("candleSnapshot %s/%s: %w", coin, interval, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// ClearinghouseState fetches the margin summary and open positions for a
// user address.
func (c *Client) ClearinghouseState(ctx context.Context, user string) (*model.AccountState, error) {
	var resp clearinghouseResponse
	if err := c.post(ctx, infoRequest{Type: "clearinghouseState", User: user}, &resp); err != nil {
		return nil, fmt.Errorf("clearinghouseState: %w", err)
	}

	state, err := resp.toModel()
	if err != nil {
		return nil, fmt.Errorf("clearinghouseState: %w", err)
	}
	return &state, nil
}
