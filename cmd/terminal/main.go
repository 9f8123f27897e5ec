// terminal renders a live market view for one Hyperliquid coin: order book
// ladder, trade tape, and candle chart, fed by the streaming client.
// Usage: go run ./cmd/terminal --config configs/terminal.example.yaml
//
// Optional environment variables (expanded into the config file):
//
//	HL_USER - wallet address for the account panel
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/api"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/config"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/market"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/stream"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	coin := flag.String("coin", "", "coin to display (overrides config)")
	interval := flag.String("interval", "", "candle interval (overrides config)")
	user := flag.String("user", "", "wallet address for account panel (overrides config)")
	logPath := flag.String("log", "", "write logs to this file (default: discard)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("terminal", version.String())
		return
	}

	// .env is optional
	_ = godotenv.Load()

	logger := newLogger(*logPath)

	cfg, err := loadConfig(*configPath, *coin, *interval, *user)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	apiClient := api.NewClient(cfg.Venue.RestURL,
		api.WithTimeout(cfg.Venue.Timeout),
		api.WithLogger(logger),
	)

	store := market.NewStore(cfg.Terminal.Coin, cfg.Terminal.Interval, cfg.Terminal.TradeBufferSize)

	st := stream.New(stream.Config{
		WSURL:                cfg.Venue.WSURL,
		DeliveryMode:         stream.DeliveryMode(cfg.Stream.DeliveryMode),
		PollInterval:         cfg.Stream.PollInterval,
		ReconnectBaseDelay:   cfg.Stream.ReconnectBaseDelay,
		ReconnectMaxDelay:    cfg.Stream.ReconnectMaxDelay,
		MaxReconnectAttempts: cfg.Stream.MaxReconnectAttempts,
		ReadyDelay:           cfg.Stream.ReadyDelay,
		SendRetryDelay:       cfg.Stream.SendRetryDelay,
		BufferSize:           cfg.Stream.BufferSize,
	}, apiClient, logger)
	defer st.Disconnect()

	// updates coalesces store writes into at most one pending repaint.
	updates := make(chan struct{}, 1)
	notify := func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	ctx := context.Background()

	if err := subscribeAll(ctx, st, store, cfg, notify); err != nil {
		fmt.Fprintln(os.Stderr, "subscribe:", err)
		os.Exit(1)
	}

	// Initial snapshots fill the view before the first stream update lands.
	go func() {
		if err := loadSnapshots(ctx, apiClient, store, cfg); err != nil {
			logger.Warn("initial snapshot load failed", "error", err)
			store.SetError(err)
		}
		store.SetLoading(false)
		notify()
	}()

	go func() {
		if err := <-st.Fatal(); err != nil {
			logger.Error("stream terminally failed", "error", err)
			store.SetError(err)
			notify()
		}
	}()

	p := tea.NewProgram(
		newModel(store, cfg.Terminal.Depth, updates),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tui:", err)
		os.Exit(1)
	}
}

// newLogger writes to the given file, or discards when the terminal owns
// the screen and no file was requested.
func newLogger(path string) *slog.Logger {
	var w io.Writer = io.Discard
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			w = f
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func loadConfig(path, coin, interval, user string) (*config.Config, error) {
	var cfg *config.Config
	if path != "" {
		loaded, err := config.LoadWithDefaults(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if coin != "" {
		cfg.Terminal.Coin = coin
	}
	if interval != "" {
		cfg.Terminal.Interval = interval
	}
	if user != "" {
		cfg.Terminal.User = user
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func subscribeAll(ctx context.Context, st *stream.Stream, store *market.Store, cfg *config.Config, notify func()) error {
	coin := cfg.Terminal.Coin

	if err := st.SubscribeOrderBook(ctx, coin, func(b model.OrderBook) {
		store.SetOrderBook(b)
		notify()
	}); err != nil {
		return err
	}

	if err := st.SubscribeTrades(ctx, coin, func(ts []model.Trade) {
		store.AddTrades(ts)
		notify()
	}); err != nil {
		return err
	}

	return st.SubscribeCandles(ctx, coin, cfg.Terminal.Interval, func(c model.Candle) {
		store.MergeCandle(c)
		notify()
	})
}

// loadSnapshots fetches the REST state the stream does not replay: recent
// trades, candle history, and the optional account panel.
func loadSnapshots(ctx context.Context, apiClient *api.Client, store *market.Store, cfg *config.Config) error {
	coin := cfg.Terminal.Coin
	interval := cfg.Terminal.Interval

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		book, err := apiClient.L2Book(ctx, coin)
		if err != nil {
			return fmt.Errorf("book snapshot: %w", err)
		}
		store.SetOrderBook(*book)
		return nil
	})

	g.Go(func() error {
		trades, err := apiClient.RecentTrades(ctx, coin)
		if err != nil {
			return fmt.Errorf("trade snapshot: %w", err)
		}
		store.SetTrades(trades)
		return nil
	})

	g.Go(func() error {
		dur, _ := model.IntervalDuration(interval)
		end := time.Now().UnixMilli()
		start := end - 100*dur.Milliseconds()

		candles, err := apiClient.CandleSnapshot(ctx, coin, interval, start, end)
		if err != nil {
			return fmt.Errorf("candle snapshot: %w", err)
		}
		store.SetCandles(candles)
		return nil
	})

	if cfg.Terminal.User != "" {
		g.Go(func() error {
			acct, err := apiClient.ClearinghouseState(ctx, cfg.Terminal.User)
			if err != nil {
				return fmt.Errorf("account snapshot: %w", err)
			}
			store.SetAccountState(*acct)
			return nil
		})
	}

	return g.Wait()
}
