package handler

import (
	"net/http"

	"childguard/backend/internal/auth"
	"childguard/backend/internal/feed"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Access is gated by the admin token, not by origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeReportFeed upgrades a moderator connection and registers it with the hub.
func (h *Handler) ServeReportFeed(c *gin.Context) {
	if h.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report feed is not available"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := feed.NewWebSocketClient(conn, h.Hub, c.GetString(auth.ContextUserID))
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}
