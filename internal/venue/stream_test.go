package venue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

func TestBookStream_SnapshotFromFeed(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		msg := map[string]any{
			"instrument_id": "NVDA",
			"bids":          []map[string]any{{"price": 51.9, "volume": 10}},
			"asks":          []map[string]any{{"price": 52.1, "volume": 5}},
		}
		data, _ := json.Marshal(msg)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
		// Keep the connection open until the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	cfg := DefaultStreamConfig(wsURL(server), "")
	stream := NewBookStream(cfg, nil)

	if err := stream.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer stream.Close()

	// Wait for the snapshot to land in the cache.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if book, ok := stream.Snapshot("NVDA"); ok {
			mid, midOK := book.Midpoint()
			if !midOK || mid != 52.0 {
				t.Errorf("Midpoint = %v, %v; want 52.0", mid, midOK)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no snapshot received before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, ok := stream.Snapshot("UNKNOWN"); ok {
		t.Error("Snapshot(UNKNOWN) should report false")
	}
}

func TestBookStream_StaleSnapshotRejected(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		msg := map[string]any{
			"instrument_id": "NVDA",
			"bids":          []map[string]any{{"price": 51.9, "volume": 10}},
			"asks":          []map[string]any{{"price": 52.1, "volume": 5}},
		}
		data, _ := json.Marshal(msg)
		conn.WriteMessage(websocket.TextMessage, data)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	cfg := DefaultStreamConfig(wsURL(server), "")
	cfg.Staleness = 30 * time.Millisecond
	stream := NewBookStream(cfg, nil)

	if err := stream.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer stream.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := stream.Snapshot("NVDA"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no snapshot received before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := stream.Snapshot("NVDA"); ok {
		t.Error("stale snapshot should report false")
	}
}

func TestBookStream_SubscribeBeforeConnect(t *testing.T) {
	stream := NewBookStream(DefaultStreamConfig("ws://unused", ""), nil)
	if err := stream.Subscribe([]string{"NVDA"}); err != ErrStreamClosed {
		t.Errorf("Subscribe before connect = %v, want ErrStreamClosed", err)
	}
}
