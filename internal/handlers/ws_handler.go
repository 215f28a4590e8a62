package handlers

import (
	"log/slog"
	"net/http"

	"gasflow/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub      *realtime.Hub
	auth     realtime.Authenticator
	upgrader websocket.Upgrader
}

// NewWSHandler accepts upgrades from allowedOrigin; an empty origin allows
// any.
func NewWSHandler(hub *realtime.Hub, auth realtime.Authenticator, allowedOrigin string) *WSHandler {
	return &WSHandler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *WSHandler) Serve(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	realtime.Serve(c.Request.Context(), ws, h.hub, h.auth)
}
