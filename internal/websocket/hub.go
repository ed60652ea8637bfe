// internal/websocket/hub.go
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/SunWolf77/SUPT-Dashboard/internal/metrics"
)

// Message types understood by the dashboard frontend.
const (
	TypeSnapshot = "snapshot"
	TypeAlert    = "alert"
	TypeHistory  = "history"
)

// Hub maintains the set of connected dashboard clients and broadcasts
// refresh snapshots and alert banners to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			metrics.ConnectedClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
			log.Printf("dashboard client connected: %s", client.Conn.RemoteAddr())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				metrics.ConnectedClients.Set(float64(len(h.clients)))
				log.Printf("dashboard client disconnected: %s", client.Conn.RemoteAddr())
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow or gone; drop it rather than stall the broadcast.
					log.Printf("dashboard client %s send buffer full, removing", client.Conn.RemoteAddr())
					close(client.Send)
					delete(h.clients, client)
				}
			}
			metrics.ConnectedClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

// RegisterClient hands a new connection to the hub loop.
func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

// BroadcastSnapshot pushes a refresh snapshot to every connected client.
func (h *Hub) BroadcastSnapshot(snap interface{}) {
	h.send(TypeSnapshot, snap)
}

// BroadcastAlert pushes an alert banner to every connected client.
func (h *Hub) BroadcastAlert(alert interface{}) {
	h.send(TypeAlert, alert)
}

func (h *Hub) send(msgType string, payload interface{}) {
	messageBytes, err := json.Marshal(map[string]interface{}{"type": msgType, "payload": payload})
	if err != nil {
		log.Printf("marshal %s broadcast: %v", msgType, err)
		return
	}
	h.broadcast <- messageBytes
}
