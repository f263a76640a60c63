package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"synergy/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.RoomHub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.RoomHub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Get room code from query params
	roomCode := r.URL.Query().Get("roomCode")
	if roomCode == "" {
		http.Error(w, "roomCode is required", http.StatusBadRequest)
		return
	}

	// Get the room session
	session, err := h.hub.GetSession(strings.ToUpper(roomCode))
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	playerID := uuid.New().String()

	// Upgrade connection to WebSocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	// Create client and register it with the session so broadcasts reach
	// it even before the join message arrives
	client := NewClient(conn, session, playerID, h.logger)
	session.RegisterClient(playerID, client)

	h.logger.Info("websocket connected",
		"roomCode", roomCode,
		"playerID", playerID,
	)

	// Start the client
	client.Run()
}
