package broadcast

import (
	"encoding/json"
	"sync"

	"onwserver/werewolf"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub fans narration events out to the websocket spectators of each
// game.
type Hub struct {
	mu       sync.Mutex
	watchers map[string]map[*websocket.Conn]bool // game id -> connections
	logger   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		watchers: make(map[string]map[*websocket.Conn]bool),
		logger:   logger,
	}
}

// Register adds a spectator connection for a game.
func (h *Hub) Register(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.watchers[gameID] == nil {
		h.watchers[gameID] = make(map[*websocket.Conn]bool)
	}
	h.watchers[gameID][conn] = true
	h.logger.Info("spectator joined", zap.String("gameID", gameID))
}

// Unregister drops a spectator connection.
func (h *Hub) Unregister(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.watchers[gameID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.watchers, gameID)
		}
	}
}

// BroadcastStep sends one executed step's result to every spectator of
// the game. Connections that fail to write are dropped.
func (h *Hub) BroadcastStep(gameID string, result *werewolf.StepResult) {
	message, err := json.Marshal(map[string]interface{}{
		"type":        "step",
		"event":       result.Event,
		"completed":   result.Completed,
		"currentStep": result.CurrentStep,
		"totalSteps":  result.TotalSteps,
	})
	if err != nil {
		h.logger.Error("Failed to encode step broadcast", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.watchers[gameID] {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Error("Failed to broadcast step", zap.String("gameID", gameID), zap.Error(err))
			conn.Close()
			delete(h.watchers[gameID], conn)
		}
	}
}
