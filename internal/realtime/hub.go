// Package realtime routes server-pushed events to the live WebSocket session
// of a user. The registry is process-local; pushes are best effort and a user
// without a connected session simply misses the event.
package realtime

import (
	"sync"

	"gasflow/internal/models"
)

const (
	EventAuth              = "auth"
	EventAuthSuccess       = "auth_success"
	EventAuthError         = "auth_error"
	EventOrderStatusUpdate = "order_status_update"
	EventNewMessage        = "new_message"
)

// Event is the JSON envelope written to clients.
type Event struct {
	Type    string              `json:"type"`
	UserID  string              `json:"userId,omitempty"`
	Order   *models.Order       `json:"order,omitempty"`
	Message *models.ChatMessage `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func OrderStatusUpdate(order *models.Order) Event {
	return Event{Type: EventOrderStatusUpdate, Order: order}
}

func NewMessage(message *models.ChatMessage) Event {
	return Event{Type: EventNewMessage, Message: message}
}

// Client is one live connection able to accept events.
type Client interface {
	// Send queues an event and reports whether it was accepted.
	Send(event Event) bool
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]Client
	owners  map[Client]string
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]Client),
		owners:  make(map[Client]string),
	}
}

// Register binds userID to client. Only the most recent session receives
// pushes; an older one stays connected but is no longer tracked.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev, hadPrev := h.clients[userID]
	if owner, ok := h.owners[client]; ok && owner != userID {
		delete(h.clients, owner)
	}
	h.clients[userID] = client
	h.owners[client] = userID
	if hadPrev && prev != client {
		delete(h.owners, prev)
	}
}

// Unregister forgets client. A newer session registered for the same user is
// left untouched.
func (h *Hub) Unregister(client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.owners[client]
	if !ok {
		return
	}
	delete(h.owners, client)
	if h.clients[userID] == client {
		delete(h.clients, userID)
	}
}

// Send pushes event to userID's session and reports whether it was queued.
func (h *Hub) Send(userID string, event Event) bool {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return client.Send(event)
}

func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
