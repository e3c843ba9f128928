// Package collector is the development telemetry collector: an ingest
// endpoint for device snapshots with live websocket fan-out. It exists
// to exercise the egress path end to end; the production backend
// (persistence, accounts, dashboards) is a separate service.
package collector

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub fans received telemetry out to websocket watchers using the
// channel-based broadcast pattern.
type Hub struct {
	logger *slog.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	mu sync.RWMutex
}

// NewHub creates a hub. Call Run in a goroutine before use.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's fan-out loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("watcher connected", "watchers", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("watcher disconnected", "watchers", count)

		case data := <-h.broadcast:
			// Full lock: the slow-watcher branch mutates the map.
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Too slow: drop the client, not the stream.
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("dropped slow watcher")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop terminates the fan-out loop. Idempotent.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// BroadcastJSON encodes v and queues it for every watcher. A full
// broadcast queue drops the message; telemetry is best-effort here
// too.
func (h *Hub) BroadcastJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn("broadcast encode failed", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast queue full, dropping record")
	}
}

// Watchers returns the number of connected websocket clients.
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
