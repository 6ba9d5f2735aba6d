// Package ws delivers committed notifications to live clients. Connections
// are grouped by recipient identity: one user may hold several connections
// (tabs, devices) and a push addresses the whole group.
package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Client is one live connection belonging to a user.
type Client struct {
	UserID uuid.UUID
	Send   chan []byte
}

// Hub tracks connected clients per user. All operations are safe for
// concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group := h.clients[client.UserID]
	if group == nil {
		group = make(map[*Client]struct{})
		h.clients[client.UserID] = group
	}
	group[client] = struct{}{}
}

// Unregister removes the client and closes its Send channel. Safe to call
// for an already-removed client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := group[client]; !ok {
		return
	}
	delete(group, client)
	if len(group) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
}

// Send fans payload out to every connection of one user. A connection whose
// buffer is full is skipped; a disconnected user is a no-op. The caller is
// never blocked or failed by delivery.
func (h *Hub) Send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
}

// ClientCount returns the total number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, group := range h.clients {
		n += len(group)
	}
	return n
}

// UserCount returns the number of connections held by one user.
func (h *Hub) UserCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
