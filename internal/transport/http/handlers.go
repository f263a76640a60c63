package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"synergy/internal/domain"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomRequest is the request body for room creation
type CreateRoomRequest struct {
	Mode string `json:"mode"` // "pair" or "ai"
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomCode   string `json:"roomCode"`
	Mode       string `json:"mode"`
	InviteLink string `json:"inviteLink"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode    string `json:"roomCode"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`
	PlayerCount int    `json:"playerCount"`
	CanJoin     bool   `json:"canJoin"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.sendError(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "INVALID_MODE", "Mode must be \"pair\" or \"ai\"")
		return
	}

	session, err := s.hub.CreateRoom(mode)
	if err != nil {
		s.sendError(c, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create room")
		return
	}

	// Build invite link
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	inviteLink := scheme + "://" + c.Request.Host + "/join/" + session.GetRoomCode()

	s.sendSuccess(c, &CreateRoomResponse{
		RoomCode:   session.GetRoomCode(),
		Mode:       strings.ToLower(session.GetMode().String()),
		InviteLink: inviteLink,
	})
}

// handleGetRoom handles GET /api/rooms/:roomCode
func (s *Server) handleGetRoom(c *gin.Context) {
	roomCode := strings.ToUpper(c.Param("roomCode"))

	session, err := s.hub.GetSession(roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.sendError(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	s.sendSuccess(c, &GetRoomResponse{
		RoomCode:    session.GetRoomCode(),
		Mode:        strings.ToLower(session.GetMode().String()),
		Status:      session.GetStatus().String(),
		PlayerCount: session.GetPlayerCount(),
		CanJoin:     session.CanJoin(),
	})
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(c *gin.Context) {
	s.sendSuccess(c, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(c *gin.Context) {
	s.sendSuccess(c, &StatsResponse{
		ActiveRooms:  s.hub.GetSessionCount(),
		TotalPlayers: s.hub.GetTotalPlayerCount(),
	})
}

// parseMode maps the wire mode to a domain mode
func parseMode(mode string) (domain.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "pair":
		return domain.ModePair, nil
	case "ai":
		return domain.ModeAI, nil
	default:
		return "", domain.ErrInvalidMode
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
