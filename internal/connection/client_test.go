package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testConfig(url string) ClientConfig {
	cfg := DefaultClientConfig()
	cfg.URL = url
	cfg.BufferSize = 100
	return cfg
}

func TestClient_Connect(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testConfig(wsURL(server)), nil)

	if client.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", client.State())
	}

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if client.State() != StateOpen {
		t.Errorf("state = %v, want open", client.State())
	}

	// Second Connect on an open client is a no-op.
	if err := client.Connect(context.Background()); err != nil {
		t.Errorf("repeat Connect failed: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if client.State() != StateClosed {
		t.Errorf("state after Close = %v, want closed", client.State())
	}
}

func TestClient_ConcurrentConnect(t *testing.T) {
	var dials int64
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(wsURL(server)), nil)
	defer client.Close()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Connect(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Connect[%d] failed: %v", i, err)
		}
	}
	if n := atomic.LoadInt64(&dials); n != 1 {
		t.Errorf("server saw %d dials, want 1", n)
	}
}

func TestClient_Send(t *testing.T) {
	received := make(chan []byte, 1)

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- msg
		}
	})
	defer server.Close()

	client := NewClient(testConfig(wsURL(server)), nil)

	// Send before Connect fails, never buffers.
	if err := client.Send([]byte("early")); err != ErrNotConnected {
		t.Errorf("Send before Connect = %v, want ErrNotConnected", err)
	}

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	want := `{"method":"subscribe"}`
	if err := client.Send([]byte(want)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case got := <-received:
		if string(got) != want {
			t.Errorf("server received %q, want %q", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("server never received the frame")
	}
}

func TestClient_Receive(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"channel":"trades"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case msg := <-client.Messages():
		if string(msg.Data) != `{"channel":"trades"}` {
			t.Errorf("Data = %q", msg.Data)
		}
		if msg.ReceivedAt.IsZero() {
			t.Error("ReceivedAt is zero")
		}
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestClient_ErrorNotifiedOnceOnRemoteClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.Close() // drop immediately
	})
	defer server.Close()

	client := NewClient(testConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	select {
	case <-client.Errors():
	case <-time.After(time.Second):
		t.Fatal("no error notification after remote close")
	}

	// Exactly one notification.
	select {
	case err := <-client.Errors():
		t.Errorf("second error notification: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestClient_CloseIsSilent(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case err := <-client.Errors():
		t.Errorf("error notification after local Close: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	// A closed client cannot be reused.
	if err := client.Connect(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("Connect after Close = %v, want ErrAlreadyClosed", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("repeat Close = %v, want nil", err)
	}
}

func TestClient_ConnectFailure(t *testing.T) {
	cfg := testConfig("ws://127.0.0.1:1/nowhere")
	cfg.HandshakeTimeout = 500 * time.Millisecond

	client := NewClient(cfg, nil)
	if err := client.Connect(context.Background()); err == nil {
		t.Fatal("expected Connect to fail")
	}
	if client.State() != StateClosed {
		t.Errorf("state after failed Connect = %v, want closed", client.State())
	}
}
