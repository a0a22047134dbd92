package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialHub starts the hub behind a test server, dials it, and waits for
// the connection to be registered.
func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	go h.Run()

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for {
		h.mu.RLock()
		n := len(h.clients)
		h.mu.RUnlock()
		if n == 1 {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	h.Broadcast(Message{Type: "equity", Equity: "10000"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var got Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("bad message: %v", err)
	}
	if got.Type != "equity" || got.Equity != "10000" {
		t.Errorf("unexpected message: %+v", got)
	}
}

func TestClient_ConcurrentWritersSerialized(t *testing.T) {
	h := NewHub()
	conn := dialHub(t, h)

	h.mu.RLock()
	var c *client
	for cl := range h.clients {
		c = cl
	}
	h.mu.RUnlock()

	const writers, perWriter = 8, 25

	// Drain on the dialer side so the server never blocks on a full
	// buffer.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for i := 0; i < writers*perWriter; i++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// The broadcast loop and ping ticker both write to one connection;
	// the per-connection lock must keep simultaneous writers safe.
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				if err := c.write(websocket.TextMessage, []byte(`{"type":"fill"}`)); err != nil {
					t.Errorf("write failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reader did not receive all messages")
	}
}
