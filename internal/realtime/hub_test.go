package realtime

import (
	"sync"
	"testing"

	"gasflow/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (f *fakeClient) Send(event Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.events = append(f.events, event)
	return true
}

func (f *fakeClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func TestHubSendToRegisteredUser(t *testing.T) {
	hub := NewHub()
	client := &fakeClient{}
	hub.Register("user-1", client)

	order := &models.Order{ID: "order-1", Status: models.OrderProcessing}
	assert.True(t, hub.Send("user-1", OrderStatusUpdate(order)))
	assert.False(t, hub.Send("user-2", OrderStatusUpdate(order)))

	assert.Len(t, client.events, 1)
	assert.Equal(t, EventOrderStatusUpdate, client.events[0].Type)
	assert.Equal(t, "order-1", client.events[0].Order.ID)
}

func TestHubLatestSessionWins(t *testing.T) {
	hub := NewHub()
	first := &fakeClient{}
	second := &fakeClient{}

	hub.Register("user-1", first)
	hub.Register("user-1", second)

	assert.False(t, first.closed, "older session stays connected")
	assert.True(t, hub.Send("user-1", Event{Type: EventNewMessage}))
	assert.Empty(t, first.events)
	assert.Len(t, second.events, 1)

	// The stale session disconnecting must not drop the live one.
	hub.Unregister(first)
	assert.True(t, hub.Connected("user-1"))

	hub.Unregister(second)
	assert.False(t, hub.Connected("user-1"))
	assert.Equal(t, 0, hub.Count())
}

func TestHubReauthenticateAsAnotherUser(t *testing.T) {
	hub := NewHub()
	client := &fakeClient{}

	hub.Register("user-1", client)
	hub.Register("user-2", client)

	assert.False(t, hub.Connected("user-1"))
	assert.True(t, hub.Connected("user-2"))
	assert.False(t, client.closed)
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := &fakeClient{}
			hub.Register("user-1", c)
			hub.Send("user-1", Event{Type: EventNewMessage})
			hub.Unregister(c)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, hub.Count())
}
