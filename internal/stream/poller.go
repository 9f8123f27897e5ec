package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/api"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
)

// pollConcurrency bounds simultaneous REST fetches per tick.
const pollConcurrency = 4

// poller feeds registered callbacks from periodic REST fetches. It backs
// the polling delivery mode; the subscription registry stays the single
// source of truth for what gets fetched.
type poller struct {
	interval time.Duration
	rest     *api.Client
	reg      *registry
	router   *router
	clk      clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func newPoller(interval time.Duration, rest *api.Client, reg *registry, router *router, clk clock.Clock, logger *slog.Logger) *poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &poller{
		interval: interval,
		rest:     rest,
		reg:      reg,
		router:   router,
		clk:      clk,
		logger:   logger,
	}
}

// ensure starts the poll loop if it is not already running.
func (p *poller) ensure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})

	p.wg.Add(1)
	go p.run(p.stop)

	p.logger.Info("poller started", "interval", p.interval)
}

// halt stops the poll loop. Safe to call when never started.
func (p *poller) halt() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("poller stopped")
}

func (p *poller) run(stop <-chan struct{}) {
	defer p.wg.Done()

	// First fetch immediately so views are not empty for a full tick.
	p.pollAll()

	ticker := p.clk.Ticker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches every registered key once, with bounded concurrency.
// Individual fetch failures are logged and skipped; the next tick retries.
func (p *poller) pollAll() {
	keys := p.reg.keys()
	if len(keys) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(pollConcurrency)

	for _, k := range keys {
		k := k
		g.Go(func() error {
			p.fetch(ctx, k)
			return nil
		})
	}
	g.Wait()
}

func (p *poller) fetch(ctx context.Context, k Key) {
	h, ok := p.reg.lookup(k)
	if !ok {
		return
	}

	switch k.Channel {
	case ChannelOrderBook:
		book, err := p.rest.L2Book(ctx, k.Coin)
		if err != nil {
			p.logger.Warn("poll fetch failed", "key", k.String(), "error", err)
			return
		}
		if h.book != nil {
			p.router.dispatch(k, func() { h.book(*book) })
		}

	case ChannelTrades:
		trades, err := p.rest.RecentTrades(ctx, k.Coin)
		if err != nil {
			p.logger.Warn("poll fetch failed", "key", k.String(), "error", err)
			return
		}
		if h.trades != nil && len(trades) > 0 {
			p.router.dispatch(k, func() { h.trades(trades) })
		}

	case ChannelCandle:
		dur, ok := model.IntervalDuration(k.Interval)
		if !ok {
			return
		}
		end := p.clk.Now().UnixMilli()
		start := end - 2*dur.Milliseconds()

		candles, err := p.rest.CandleSnapshot(ctx, k.Coin, k.Interval, start, end)
		if err != nil {
			p.logger.Warn("poll fetch failed", "key", k.String(), "error", err)
			return
		}
		if h.candle != nil {
			for _, c := range candles {
				p.router.dispatch(k, func() { h.candle(c) })
			}
		}
	}
}
