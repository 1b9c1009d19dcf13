package handlers

import (
	"errors"
	"net/http"

	"onwserver/werewolf"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Watch upgrades the connection and streams every subsequently
// executed step of the game to the spectator.
func (h *Handler) Watch(c *gin.Context) {
	gameID := c.Param("id")

	if _, err := h.orch.Session(c.Request.Context(), gameID); err != nil {
		if errors.Is(err, werewolf.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	h.hub.Register(gameID, conn)

	// Spectators only listen; the read loop exists to notice the close.
	go func() {
		defer func() {
			h.hub.Unregister(gameID, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
