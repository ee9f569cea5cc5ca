// Package logtail streams log entries to TCP and WebSocket subscribers.
package logtail

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"unihub/internal/logbuf"
)

const writeTimeout = 2 * time.Second

// Message is one JSON line on the wire.
type Message struct {
	Type      string        `json:"type"` // "welcome" or "log"
	Transport string        `json:"transport,omitempty"`
	Clients   int           `json:"clients,omitempty"`
	Entry     *logbuf.Entry `json:"entry,omitempty"`
}

type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}

	queue   chan []byte
	dropped atomic.Uint64
}

type Stats struct {
	TCPClients int    `json:"tcp_clients"`
	WSClients  int    `json:"ws_clients"`
	Dropped    uint64 `json:"dropped"`
}

// NewHub returns a hub whose Publish queue holds up to queueSize messages.
func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Hub{
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
		queue:     make(chan []byte, queueSize),
	}
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.wsClients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// Publish queues v for broadcast without blocking. When the queue is
// full the message is dropped and counted.
func (h *Hub) Publish(v any) {
	b, err := encode(v)
	if err != nil {
		zap.L().Warn("logtail encode failed", zap.Error(err))
		return
	}
	select {
	case h.queue <- b:
	default:
		h.dropped.Add(1)
	}
}

// Run broadcasts queued messages in order until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-h.queue:
			h.broadcast(b)
		}
	}
}

// BroadcastJSON writes v to every client immediately.
func (h *Hub) BroadcastJSON(v any) {
	b, err := encode(v)
	if err != nil {
		return
	}
	h.broadcast(b)
}

func encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func (h *Hub) broadcast(b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// TCP clients
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := c.Write(b); err != nil {
			_ = c.Close()
			delete(h.clients, c)
		}
	}

	// WebSocket clients
	for ws := range h.wsClients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
		Dropped:    h.dropped.Load(),
	}
}

func (h *Hub) welcome(transport string) []byte {
	s := h.Stats()
	b, _ := encode(Message{Type: "welcome", Transport: transport, Clients: s.TCPClients + s.WSClients + 1})
	return b
}

// Sink feeds log buffer entries into a hub.
type Sink struct {
	Hub *Hub
}

func (s Sink) Write(e logbuf.Entry) {
	s.Hub.Publish(Message{Type: "log", Entry: &e})
}
