package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a single WebSocket connection to the venue.
//
// A Client is single-use: once its connection is lost or Close is called it
// stays Closed. Callers wanting a new connection create a new Client.
type Client interface {
	// Connect establishes the WebSocket connection. It is a no-op when
	// already Open, and concurrent callers join the in-flight attempt
	// rather than opening duplicate sockets.
	Connect(ctx context.Context) error

	// Close gracefully closes the connection. Close never produces an
	// error notification on Errors.
	Close() error

	// Send writes raw bytes to the connection. It fails with
	// ErrNotConnected when the connection is not Open; it never buffers.
	Send(data []byte) error

	// Messages returns the channel of raw inbound frames.
	Messages() <-chan TimestampedMessage

	// Errors returns a channel delivering at most one connection error,
	// sent on the first unexpected close.
	Errors() <-chan error

	// State returns the current connection state.
	State() State
}

// client implements the Client interface.
type client struct {
	cfg    ClientConfig
	logger *slog.Logger

	messages chan TimestampedMessage
	errors   chan error
	done     chan struct{}

	// Write serialization
	writeMu sync.Mutex

	mu          sync.Mutex
	state       State
	conn        *websocket.Conn
	connectDone chan struct{} // closed when the in-flight Connect settles
	connectErr  error
	lastPingAt  time.Time
	closed      bool

	notifyOnce sync.Once
}

// NewClient creates a new WebSocket client.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &client{
		cfg:      cfg,
		logger:   logger,
		messages: make(chan TimestampedMessage, cfg.BufferSize),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// Connect establishes the WebSocket connection.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}

	switch c.state {
	case StateOpen:
		c.mu.Unlock()
		return nil

	case StateConnecting:
		// Join the in-flight attempt.
		doneCh := c.connectDone
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-doneCh:
		}

		c.mu.Lock()
		err := c.connectErr
		c.mu.Unlock()
		return err
	}

	c.state = StateConnecting
	c.connectDone = make(chan struct{})
	doneCh := c.connectDone
	c.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)

	c.mu.Lock()
	switch {
	case err != nil:
		c.state = StateClosed
		c.connectErr = err
	case c.closed:
		// Close raced the dial; discard the fresh socket.
		conn.Close()
		err = ErrAlreadyClosed
		c.connectErr = err
	default:
		c.conn = conn
		c.state = StateOpen
		c.connectErr = nil
		c.lastPingAt = time.Now()
	}
	close(doneCh)
	c.mu.Unlock()

	if err != nil {
		return err
	}

	// The venue pings; respond and track liveness either way.
	conn.SetPingHandler(func(data string) error {
		c.mu.Lock()
		c.lastPingAt = time.Now()
		c.mu.Unlock()

		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})
	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastPingAt = time.Now()
		c.mu.Unlock()
		return nil
	})

	go c.readLoop(conn)
	go c.heartbeatLoop(conn)

	c.logger.Debug("websocket connected", "url", c.cfg.URL)

	return nil
}

// Close gracefully closes the connection.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.state = StateClosed
	conn := c.conn
	c.conn = nil // stale socket reference must never be reused
	c.mu.Unlock()

	close(c.done)

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}

	return nil
}

// Send writes raw bytes to the connection.
func (c *client) Send(data []byte) error {
	c.mu.Lock()
	if c.state != StateOpen || c.conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Messages returns the messages channel.
func (c *client) Messages() <-chan TimestampedMessage {
	return c.messages
}

// Errors returns the errors channel.
func (c *client) Errors() <-chan error {
	return c.errors
}

// State returns the current connection state.
func (c *client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// notify surfaces a connection failure at most once per Client.
func (c *client) notify(err error) {
	c.notifyOnce.Do(func() {
		select {
		case c.errors <- err:
		default:
		}
	})
}

// markClosed transitions to Closed and drops the socket reference.
func (c *client) markClosed() {
	c.mu.Lock()
	c.state = StateClosed
	c.conn = nil
	c.mu.Unlock()
}

// readLoop reads frames from the socket into the messages channel.
func (c *client) readLoop(conn *websocket.Conn) {
	defer c.markClosed()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, data, err := conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			// Errors after Close() are expected; stay silent.
			select {
			case <-c.done:
			default:
				c.notify(err)
			}
			return
		}

		msg := TimestampedMessage{
			Data:       data,
			ReceivedAt: receivedAt,
		}

		select {
		case c.messages <- msg:
		case <-c.done:
			return
		default:
			c.logger.Warn("message buffer full, dropping frame")
		}
	}
}

// heartbeatLoop sends keepalive pings and detects stale connections.
func (c *client) heartbeatLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
			}

			c.mu.Lock()
			lastPing := c.lastPingAt
			c.mu.Unlock()

			if time.Since(lastPing) > c.cfg.PingTimeout {
				c.logger.Warn("connection stale, no ping activity",
					"last_ping", lastPing,
					"timeout", c.cfg.PingTimeout,
				)
				c.markClosed()
				c.notify(ErrStaleConnection)
				conn.Close()
				return
			}
		}
	}
}
