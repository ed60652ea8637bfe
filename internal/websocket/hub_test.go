package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
)

// newTestConnPair upgrades one connection through httptest and returns the
// server side (what the hub's Client wraps) and the dialer side (what a
// browser would hold).
func newTestConnPair(t *testing.T) (*gws.Conn, *gws.Conn) {
	t.Helper()

	upgrader := gws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverConns := make(chan *gws.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	dialConn, _, err := gws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { dialConn.Close() })

	return <-serverConns, dialConn
}

func readEnvelope(t *testing.T, conn *gws.Conn) (string, json.RawMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env.Type, env.Payload
}

func (h *Hub) hasClient(client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[client]
}

func waitForClientGone(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.hasClient(client) {
		if time.Now().After(deadline) {
			t.Fatal("client still registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastEnvelopeTypes(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	serverConn, dialConn := newTestConnPair(t)
	client := &Client{Hub: hub, Conn: serverConn, Send: make(chan []byte, 8)}
	hub.RegisterClient(client)
	go client.WritePump()

	hub.BroadcastSnapshot(map[string]string{"phase": "MONITORING"})
	msgType, payload := readEnvelope(t, dialConn)
	if msgType != TypeSnapshot {
		t.Fatalf("expected %q envelope, got %q", TypeSnapshot, msgType)
	}
	var snap map[string]string
	if err := json.Unmarshal(payload, &snap); err != nil || snap["phase"] != "MONITORING" {
		t.Fatalf("unexpected snapshot payload %s (err %v)", payload, err)
	}

	hub.BroadcastAlert(map[string]string{"message": "banner"})
	msgType, _ = readEnvelope(t, dialConn)
	if msgType != TypeAlert {
		t.Fatalf("expected %q envelope, got %q", TypeAlert, msgType)
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	serverConn, _ := newTestConnPair(t)
	client := &Client{Hub: hub, Conn: serverConn, Send: make(chan []byte, 8)}
	hub.RegisterClient(client)

	deadline := time.Now().Add(2 * time.Second)
	for !hub.hasClient(client) {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.unregister <- client
	waitForClientGone(t, hub, client)

	if _, ok := <-client.Send; ok {
		t.Fatal("expected Send closed after unregister")
	}
}

func TestHubEvictsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	serverConn, _ := newTestConnPair(t)
	// Unbuffered and never drained: the first broadcast cannot be delivered.
	client := &Client{Hub: hub, Conn: serverConn, Send: make(chan []byte)}
	hub.RegisterClient(client)

	deadline := time.Now().Add(2 * time.Second)
	for !hub.hasClient(client) {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.BroadcastSnapshot("payload")
	waitForClientGone(t, hub, client)

	if _, ok := <-client.Send; ok {
		t.Fatal("expected Send closed after eviction")
	}
}
