package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"salesreg/internal/infrastructure"
)

// TypeConnection is sent to every client right after it registers
const TypeConnection = "connection"

// broadcastBuffer is the number of events queued before publishers drop
const broadcastBuffer = 64

// Message is the envelope of every event sent to clients
type Message struct {
	Type      string      `json:"type"`
	RunID     string      `json:"run_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts events to them
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// mu guards clients for ClientCount; the run loop is the only writer
	mu      sync.RWMutex
	running atomic.Bool
	dropped atomic.Int64

	logger *slog.Logger
}

// NewHub creates a hub. Call Run to start delivering events.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
	}
}

// Run delivers events until ctx is canceled, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
		h.mu.Unlock()
		h.logger.Info("Hub shutting down")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.InfoContext(client.context(), "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			if msg, err := encode(TypeConnection, "", map[string]interface{}{
				"status":    "connected",
				"client_id": client.id,
			}); err == nil {
				h.deliver(client, msg)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()
				h.logger.InfoContext(client.context(), "Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			h.logger.Debug("Broadcasting message to clients",
				slog.Int("client_count", len(clients)),
				slog.Int("message_size", len(message)))
			for _, client := range clients {
				h.deliver(client, message)
			}
		}
	}
}

// deliver queues message for client, disconnecting it when its buffer is
// full. Only called from the run loop.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		h.mu.Lock()
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
		}
		h.mu.Unlock()
		h.logger.WarnContext(client.context(), "Client send buffer full, disconnecting",
			slog.String("client_id", client.id))
	}
}

// Publish queues an event for every connected client. It never blocks:
// events are discarded while the hub is not running or its queue is full.
func (h *Hub) Publish(ctx context.Context, eventType, runID string, data interface{}) {
	if !h.running.Load() {
		return
	}
	msg, err := encode(eventType, runID, data)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", eventType))
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.dropped.Add(1)
		h.logger.WarnContext(ctx, "Broadcast queue full, event dropped",
			slog.String("message_type", eventType))
	}
}

// Register adds a client. It reports false, and closes the connection,
// when the hub has already shut down.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		client.conn.Close()
		return false
	}
}

// Unregister removes a client and closes its send buffer
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns the number of events discarded because the queue was full
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

func encode(eventType, runID string, data interface{}) ([]byte, error) {
	return json.Marshal(Message{
		Type:      eventType,
		RunID:     runID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}
