// Package events streams blog mutations to websocket subscribers. The hub
// keeps a registry of connected clients and broadcasts without blocking:
// a client that cannot keep up loses events rather than stalling writers.
package events

import (
	"sync"

	blogservice "github.com/avolkov/bloglist/internal/blog/service"
	"github.com/avolkov/bloglist/internal/common/constants"
	"github.com/avolkov/bloglist/internal/common/logger"
	"github.com/avolkov/bloglist/internal/observability/metrics"
)

type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Publish fans the event out to every connected client. Slow clients are
// skipped and counted, never waited on.
func (h *Hub) Publish(event blogservice.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for c := range h.clients {
		select {
		case c.send <- event:
		default:
			metrics.EventFeedDropped.Inc()
		}
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	h.clients[c] = struct{}{}
	metrics.EventFeedClients.Set(float64(len(h.clients)))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.EventFeedClients.Set(float64(len(h.clients)))
	}
}

// Close disconnects every client. Publish becomes a no-op afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	metrics.EventFeedClients.Set(0)
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type client struct {
	send chan blogservice.Event
}

func newClient() *client {
	return &client{
		send: make(chan blogservice.Event, constants.EventFeedSendBufferSize),
	}
}
