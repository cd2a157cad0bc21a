package handler

import (
	"net/http"

	"campusdesk/backend/internal/live"
	"campusdesk/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from a separate origin; tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an authenticated staff connection to the live event feed.
// Department staff receive only their own department's events.
func (h *Handler) ServeWS(c *gin.Context) {
	actor := actorFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	scope := ""
	if actor.Role == models.RoleDepartment {
		scope = actor.Department
	}

	client := &live.Client{
		UserID:     actor.ID,
		Department: scope,
		Conn:       conn,
		Hub:        h.Hub,
		Send:       make(chan models.LifecycleEvent, 64),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
