package api

import (
	"context"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/SunWolf77/SUPT-Dashboard/internal/data"
	"github.com/SunWolf77/SUPT-Dashboard/internal/storage"
	"github.com/SunWolf77/SUPT-Dashboard/internal/websocket"

	gwebsocket "github.com/gorilla/websocket" // Alias to avoid name conflict
)

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Refresher triggers an immediate refresh cycle.
type Refresher interface {
	TriggerNow(ctx context.Context) *data.Snapshot
}

type APIHandler struct {
	store     *storage.SnapshotStore
	refresher Refresher
	hub       *websocket.Hub
	tmpl      *template.Template
	webDir    string
}

func NewAPIHandler(store *storage.SnapshotStore, refresher Refresher, hub *websocket.Hub, webDir string) *APIHandler {
	tmplPath := filepath.Join(webDir, "templates", "*.html")
	tmpl, err := template.ParseGlob(tmplPath)
	if err != nil {
		log.Fatalf("Error parsing templates: %v", err)
	}

	return &APIHandler{
		store:     store,
		refresher: refresher,
		hub:       hub,
		tmpl:      tmpl,
		webDir:    webDir,
	}
}

// GetSnapshot returns the latest refresh snapshot.
func (h *APIHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Latest()
	if snap == nil {
		http.Error(w, "no refresh cycle has completed yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

// GetSnapshots returns up to ?limit=N recent snapshots, oldest first.
func (h *APIHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, h.store.Recent(limit))
}

// GetStress returns the latest stress series with its alert state, the
// minimal payload a chart-only client needs.
func (h *APIHandler) GetStress(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Latest()
	if snap == nil {
		http.Error(w, "no refresh cycle has completed yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{
		"at":           snap.At,
		"stress":       snap.Stress,
		"alert_active": snap.AlertActive,
		"threshold":    snap.Threshold,
	})
}

// TriggerRefresh runs an immediate fetch-compute-publish cycle and returns
// its snapshot.
func (h *APIHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	snap := h.refresher.TriggerNow(r.Context())
	if snap == nil {
		http.Error(w, "refresh unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

// HealthCheck reports liveness and the age of the last completed refresh.
func (h *APIHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":    "ok",
		"snapshots": h.store.Len(),
	}
	if snap := h.store.Latest(); snap != nil {
		resp["last_refresh"] = snap.At
		resp["last_refresh_age_seconds"] = time.Since(snap.At).Seconds()
		resp["alert_active"] = snap.AlertActive
	}
	writeJSON(w, resp)
}

// HandleWebSocket upgrades connections and registers clients with the hub.
func (h *APIHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &websocket.Client{Hub: h.hub, Conn: conn, Send: make(chan []byte, 256)}

	// Queue history before the hub learns about the client. The hub owns
	// closing Send; until registration it cannot close it, so this send can
	// never race an unregister or eviction.
	h.queueInitialHistory(client)

	client.Hub.RegisterClient(client)

	go client.WritePump()
	go client.ReadPump()
}

// ServeWebUI serves the dashboard page.
func (h *APIHandler) ServeWebUI(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := h.tmpl.ExecuteTemplate(w, "index.html", nil); err != nil {
		log.Printf("Error executing template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// queueInitialHistory buffers the recent snapshot ring into a new client's
// send channel so the charts render without waiting for the next cycle.
// Must be called before the client is registered with the hub.
func (h *APIHandler) queueInitialHistory(client *websocket.Client) {
	recent := h.store.Recent(0)
	if len(recent) == 0 {
		return
	}

	messageBytes, err := json.Marshal(map[string]interface{}{
		"type":    websocket.TypeHistory,
		"payload": recent,
	})
	if err != nil {
		log.Printf("Error marshalling history: %v", err)
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		log.Printf("History dropped: send buffer full")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
