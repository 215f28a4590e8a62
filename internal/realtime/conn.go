package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"gasflow/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Authenticator resolves the user behind a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type inbound struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Conn is a WebSocket session. Writes go through a buffered queue drained
// by a single writer goroutine; a full queue drops the event.
type Conn struct {
	ws        *websocket.Conn
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *Conn) Send(event Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- event:
		return true
	case <-c.done:
		return false
	default:
		slog.Warn("websocket send queue full, dropping event", "type", event.Type)
		return false
	}
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Serve runs the session until the peer disconnects. The client must send
// {"type":"auth","token":...} before it is registered with the hub.
func Serve(ctx context.Context, ws *websocket.Conn, hub *Hub, auth Authenticator) {
	c := newConn(ws)
	go c.writePump()
	defer func() {
		hub.Unregister(c)
		c.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read failed", "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type != EventAuth {
			continue
		}

		user, err := auth.Authenticate(ctx, msg.Token)
		if err != nil {
			c.Send(Event{Type: EventAuthError, Error: "Invalid token"})
			continue
		}
		hub.Register(user.ID, c)
		c.Send(Event{Type: EventAuthSuccess, UserID: user.ID})
		slog.Debug("websocket authenticated", "user_id", user.ID)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case event := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(event); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
