package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/api"
	"github.com/EasonWang01/Hyperliquid-Markets-Mini-Terminal/internal/connection"
)

// DeliveryMode selects how subscription data reaches callbacks.
type DeliveryMode string

const (
	// DeliveryStreaming feeds callbacks from the WebSocket (default).
	DeliveryStreaming DeliveryMode = "streaming"

	// DeliveryPolling feeds the same callbacks from periodic REST fetches;
	// the WebSocket is never opened.
	DeliveryPolling DeliveryMode = "polling"
)

// Config configures a Stream.
type Config struct {
	WSURL        string        // WebSocket endpoint URL
	DeliveryMode DeliveryMode  // streaming or polling
	PollInterval time.Duration // Fetch cadence in polling mode

	ReconnectBaseDelay   time.Duration // Backoff unit; delay before attempt n is base × n
	ReconnectMaxDelay    time.Duration // Backoff cap
	MaxReconnectAttempts int           // Consecutive failures before terminal failure

	ReadyDelay     time.Duration // Grace after Open before the first send (resilience margin only)
	SendRetryDelay time.Duration // Wait before the single send retry
	BufferSize     int           // Transport inbound buffer size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DeliveryMode:         DeliveryStreaming,
		PollInterval:         2 * time.Second,
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxDelay:    30 * time.Second,
		MaxReconnectAttempts: 5,
		ReadyDelay:           100 * time.Millisecond,
		SendRetryDelay:       250 * time.Millisecond,
		BufferSize:           1024,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.DeliveryMode == "" {
		c.DeliveryMode = def.DeliveryMode
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.ReconnectBaseDelay <= 0 {
		c.ReconnectBaseDelay = def.ReconnectBaseDelay
	}
	if c.ReconnectMaxDelay <= 0 {
		c.ReconnectMaxDelay = def.ReconnectMaxDelay
	}
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = def.MaxReconnectAttempts
	}
	if c.SendRetryDelay <= 0 {
		c.SendRetryDelay = def.SendRetryDelay
	}
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
}

// clientFactory builds a transport. Tests swap it for a fake.
type clientFactory func(connection.ClientConfig, *slog.Logger) connection.Client

// Stream multiplexes logical market-data subscriptions over one WebSocket
// connection to the venue.
type Stream struct {
	cfg    Config
	rest   *api.Client
	logger *slog.Logger
	clk    clock.Clock

	newClient clientFactory

	reg    *registry
	router *router
	poll   *poller

	// connMu serializes connection establishment so concurrent subscribe
	// calls cannot race into duplicate connections.
	connMu sync.Mutex

	mu           sync.Mutex
	client       connection.Client
	closed       bool
	reconnecting bool

	done chan struct{}
	wg   sync.WaitGroup

	fatalOnce sync.Once
	fatal     chan error
}

// Stats is a snapshot of stream counters.
type Stats struct {
	Router        RouterStats
	Subscriptions int
}

// New creates a Stream. rest is required only for polling delivery mode;
// it may be nil in streaming mode.
func New(cfg Config, rest *api.Client, logger *slog.Logger) *Stream {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", uuid.NewString())

	reg := newRegistry()
	s := &Stream{
		cfg:    cfg,
		rest:   rest,
		logger: logger,
		clk:    clock.New(),
		newClient: func(ccfg connection.ClientConfig, l *slog.Logger) connection.Client {
			return connection.NewClient(ccfg, l)
		},
		reg:    reg,
		router: newRouter(reg, logger),
		done:   make(chan struct{}),
		fatal:  make(chan error, 1),
	}
	s.poll = newPoller(cfg.PollInterval, rest, reg, s.router, s.clk, logger)

	return s
}

// Fatal returns a channel that delivers at most one terminal failure:
// reconnect attempts exhausted for the current connection's lifetime.
func (s *Stream) Fatal() <-chan error {
	return s.fatal
}

// Stats returns current counters.
func (s *Stream) Stats() Stats {
	return Stats{
		Router:        s.router.stats(),
		Subscriptions: s.reg.size(),
	}
}

// SubscribeOrderBook subscribes to full-depth book updates for a coin.
// Re-subscribing the same coin replaces the callback.
func (s *Stream) SubscribeOrderBook(ctx context.Context, coin string, h BookHandler) error {
	return s.subscribe(ctx, BookKey(coin), handler{book: h})
}

// SubscribeTrades subscribes to the live trade feed for a coin.
func (s *Stream) SubscribeTrades(ctx context.Context, coin string, h TradesHandler) error {
	return s.subscribe(ctx, TradesKey(coin), handler{trades: h})
}

// SubscribeCandles subscribes to candle updates for a coin and interval.
func (s *Stream) SubscribeCandles(ctx context.Context, coin, interval string, h CandleHandler) error {
	return s.subscribe(ctx, CandleKey(coin, interval), handler{candle: h})
}

// UnsubscribeOrderBook removes the book subscription for a coin. Safe to
// call when never subscribed.
func (s *Stream) UnsubscribeOrderBook(coin string) {
	s.unsubscribe(BookKey(coin))
}

// UnsubscribeTrades removes the trade subscription for a coin.
func (s *Stream) UnsubscribeTrades(coin string) {
	s.unsubscribe(TradesKey(coin))
}

// UnsubscribeCandles removes the candle subscription for a coin/interval.
func (s *Stream) UnsubscribeCandles(coin, interval string) {
	s.unsubscribe(CandleKey(coin, interval))
}

// Disconnect closes the transport and destroys every subscription. This is
// the only operation besides explicit unsubscribes that removes registry
// entries.
func (s *Stream) Disconnect() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cl := s.client
	s.client = nil
	s.mu.Unlock()

	close(s.done)

	if cl != nil {
		cl.Close()
	}
	s.poll.halt()
	s.reg.clear()
	s.wg.Wait()

	s.logger.Info("stream disconnected")
}

func (s *Stream) subscribe(ctx context.Context, k Key, h handler) error {
	if err := k.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClientClosed
	}

	if s.cfg.DeliveryMode == DeliveryPolling {
		s.reg.register(k, h)
		s.poll.ensure()
		s.logger.Debug("subscription registered (polling)", "key", k.String())
		return nil
	}

	if err := s.ensureConnected(ctx); err != nil {
		return err
	}

	// Register before sending: if the frame is lost the entry still gets
	// replayed by the next resubscription pass.
	s.reg.register(k, h)
	s.send(subscribeCommand(k))
	s.logger.Debug("subscribed", "key", k.String())
	return nil
}

func (s *Stream) unsubscribe(k Key) {
	// Registry removal is immediate; in-flight messages for the key are
	// dropped by the router's no-match path.
	s.reg.unregister(k)

	if s.cfg.DeliveryMode == DeliveryPolling {
		return
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	s.send(unsubscribeCommand(k))
	s.logger.Debug("unsubscribed", "key", k.String())
}

// ensureConnected opens the transport if needed. Concurrent callers
// serialize on connMu, and the transport's Connect is itself idempotent,
// so duplicate connections cannot happen. While a reconnect is in
// progress it returns immediately: the registry entry will be replayed
// once the reconnect lands.
func (s *Stream) ensureConnected(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClientClosed
	}
	if s.reconnecting {
		s.mu.Unlock()
		return nil
	}
	cl := s.client
	s.mu.Unlock()

	if cl != nil && cl.State() == connection.StateOpen {
		return nil
	}

	cl = s.newClient(s.clientConfig(), s.logger)
	if err := cl.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	s.adopt(cl)
	s.settle()
	return nil
}

func (s *Stream) clientConfig() connection.ClientConfig {
	ccfg := connection.DefaultClientConfig()
	ccfg.URL = s.cfg.WSURL
	ccfg.BufferSize = s.cfg.BufferSize
	return ccfg
}

// adopt installs a freshly opened transport and starts its pump.
func (s *Stream) adopt(cl connection.Client) {
	s.mu.Lock()
	s.client = cl
	s.mu.Unlock()

	s.wg.Add(1)
	go s.pump(cl)
}

// settle waits the post-open grace period before the first send. The venue
// occasionally needs a beat after the handshake; correctness does not
// depend on this delay.
func (s *Stream) settle() {
	if s.cfg.ReadyDelay > 0 {
		s.clk.Sleep(s.cfg.ReadyDelay)
	}
}

// pump forwards inbound frames to the router until the connection dies,
// then hands off to the reconnect loop.
func (s *Stream) pump(cl connection.Client) {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return

		case err, ok := <-cl.Errors():
			if !ok {
				return
			}
			s.mu.Lock()
			closed := s.closed
			if !closed {
				s.reconnecting = true
			}
			s.mu.Unlock()
			if closed {
				return
			}

			s.logger.Warn("connection lost", "error", err)
			s.wg.Add(1)
			go s.reconnectLoop()
			return

		case msg, ok := <-cl.Messages():
			if !ok {
				return
			}
			s.router.route(msg.Data)
		}
	}
}

// reconnectLoop re-establishes the transport and replays every registry
// entry. The attempt counter starts fresh per outage and resets implicitly
// on success.
func (s *Stream) reconnectLoop() {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		s.reconnecting = false
		s.mu.Unlock()
	}()

	rec := &reconnector{
		baseDelay:   s.cfg.ReconnectBaseDelay,
		maxDelay:    s.cfg.ReconnectMaxDelay,
		maxAttempts: s.cfg.MaxReconnectAttempts,
		clk:         s.clk,
		logger:      s.logger,
	}

	var adopted connection.Client
	err := rec.run(s.done, func() error {
		cl := s.newClient(s.clientConfig(), s.logger)
		if err := cl.Connect(context.Background()); err != nil {
			return err
		}
		adopted = cl
		return nil
	})

	if err != nil {
		if err == ErrClientClosed {
			return
		}
		s.fail(err)
		return
	}

	s.adopt(adopted)
	s.settle()
	s.resubscribeAll()
}

// resubscribeAll reissues a subscribe frame for every registered key, in
// no guaranteed order.
func (s *Stream) resubscribeAll() {
	keys := s.reg.keys()
	for _, k := range keys {
		s.send(subscribeCommand(k))
	}
	s.logger.Info("resubscribed", "count", len(keys))
}

// fail surfaces the terminal reconnect failure exactly once.
func (s *Stream) fail(err error) {
	s.fatalOnce.Do(func() {
		s.logger.Error("stream failed", "error", err)
		s.fatal <- err
	})
}

// send transmits a command. A send while not connected gets one bounded
// retry after a short fixed delay; if the transport is still not ready
// the frame is logged and dropped. The registry plus resubscription make
// the drop harmless, so the caller is not informed synchronously.
func (s *Stream) send(cmd command) {
	data, err := json.Marshal(cmd)
	if err != nil {
		s.logger.Error("marshal command", "error", err)
		return
	}

	if s.trySend(data) == nil {
		return
	}

	s.clk.Sleep(s.cfg.SendRetryDelay)

	if err := s.trySend(data); err != nil {
		s.logger.Warn("dropping command, transport not ready",
			"method", cmd.Method,
			"type", cmd.Subscription.Type,
			"coin", cmd.Subscription.Coin,
			"error", err,
		)
	}
}

func (s *Stream) trySend(data []byte) error {
	s.mu.Lock()
	cl := s.client
	s.mu.Unlock()

	if cl == nil {
		return connection.ErrNotConnected
	}
	return cl.Send(data)
}
