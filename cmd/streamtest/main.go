// streamtest connects to the Hyperliquid stream and prints parsed market
// data to the console. Useful for eyeballing feed health without the TUI.
// Usage: go run ./cmd/streamtest --coin BTC --interval 1m
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/api"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/config"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/market"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/model"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/stream"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	coin := flag.String("coin", "", "coin to stream (overrides config)")
	interval := flag.String("interval", "", "candle interval (overrides config)")
	mode := flag.String("mode", "", "delivery mode: streaming or polling (overrides config)")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	_ = godotenv.Load()

	// Load config
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if *coin != "" {
		cfg.Terminal.Coin = *coin
	}
	if *interval != "" {
		cfg.Terminal.Interval = *interval
	}
	if *mode != "" {
		cfg.Stream.DeliveryMode = *mode
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	apiClient := api.NewClient(cfg.Venue.RestURL,
		api.WithTimeout(cfg.Venue.Timeout),
		api.WithLogger(logger),
	)

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

	target := cfg.Terminal.Coin
	logger.Info("subscribing", "coin", target, "interval", cfg.Terminal.Interval, "mode", cfg.Stream.DeliveryMode)

	if err := st.SubscribeOrderBook(ctx, target, func(b model.OrderBook) {
		bid, ask, ok := market.TopOfBook(b)
		if !ok {
			fmt.Printf("[BOOK] coin=%s empty side time=%d\n", b.Coin, b.Time)
			return
		}
		fmt.Printf("[BOOK] coin=%s bid=%.2fx%.4f ask=%.2fx%.4f levels=%d/%d time=%d\n",
			b.Coin, bid.Price, bid.Size, ask.Price, ask.Size, len(b.Bids), len(b.Asks), b.Time)
	}); err != nil {
		logger.Error("subscribe book failed", "error", err)
		os.Exit(1)
	}

	if err := st.SubscribeTrades(ctx, target, func(ts []model.Trade) {
		for _, tr := range ts {
			fmt.Printf("[TRADE] coin=%s side=%s price=%.2f size=%.4f tid=%d\n",
				tr.Coin, tr.Side, tr.Price, tr.Size, tr.TID)
		}
	}); err != nil {
		logger.Error("subscribe trades failed", "error", err)
		os.Exit(1)
	}

	if err := st.SubscribeCandles(ctx, target, cfg.Terminal.Interval, func(c model.Candle) {
		fmt.Printf("[CANDLE] coin=%s interval=%s open=%d O=%.2f H=%.2f L=%.2f C=%.2f V=%.4f n=%d\n",
			c.Coin, c.Interval, c.OpenTime, c.Open, c.High, c.Low, c.Close, c.Volume, c.Trades)
	}); err != nil {
		logger.Error("subscribe candles failed", "error", err)
		os.Exit(1)
	}

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := st.Stats()
				logger.Info("stats",
					"subscriptions", stats.Subscriptions,
					"received", stats.Router.Received,
					"routed", stats.Router.Routed,
					"parse_errors", stats.Router.ParseErrors,
					"unmatched", stats.Router.Unmatched,
					"unknown_channels", stats.Router.UnknownChannels,
				)
			}
		}
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-st.Fatal():
		logger.Error("stream terminally failed", "error", err)
	}

	logger.Info("shutting down...")
	st.Disconnect()
	logger.Info("shutdown complete")
}
