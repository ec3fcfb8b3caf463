package services

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

const TopicScans = "scans"

// Broadcaster publishes events to realtime subscribers.
type Broadcaster interface {
	Broadcast(topic string, payload any)
}

// WSConn is the part of *websocket.Conn the hub writes to.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type WSClient struct {
	Topic string
	Conn  WSConn

	mu sync.Mutex // one writer per connection
}

// Send writes one message to the client.
func (c *WSClient) Send(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.Topic] == nil {
		h.clients[c.Topic] = make(map[*WSClient]struct{})
	}
	h.clients[c.Topic][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.Topic]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.Topic)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Count returns the number of subscribers on topic.
func (h *RealtimeHub) Count(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

func (h *RealtimeHub) Broadcast(topic string, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		slog.Error("realtime payload encode failed", "topic", topic, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[topic]))
	for c := range h.clients[topic] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Send(websocket.TextMessage, msg); err != nil {
			slog.Warn("realtime write failed, dropping client", "topic", topic, "error", err)
			h.Unregister(c)
		}
	}
}
