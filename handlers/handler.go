package handlers

import (
	"net/http"

	"onwserver/archive"
	"onwserver/werewolf"
	"onwserver/werewolf/broadcast"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler bundles the collaborators the HTTP boundary needs.
type Handler struct {
	orch     *werewolf.Orchestrator
	hub      *broadcast.Hub
	archive  *archive.Archive // nil when no database is configured
	logger   *zap.Logger
	jwtKey   []byte
	upgrader websocket.Upgrader
}

// New builds the handler set. The archive may be nil.
func New(orch *werewolf.Orchestrator, hub *broadcast.Hub, arc *archive.Archive, jwtKey []byte, logger *zap.Logger) *Handler {
	return &Handler{
		orch:    orch,
		hub:     hub,
		archive: arc,
		logger:  logger,
		jwtKey:  jwtKey,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}
