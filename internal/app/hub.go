package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"synergy/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// StaleRoomTimeout is how long before a room with no players is cleaned up
	StaleRoomTimeout = 2 * time.Hour

	// CodeReuseCooldown is how long a freed room code stays unavailable, so a
	// client still holding the code cannot land in an unrelated new room
	CodeReuseCooldown = 5 * time.Minute
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomHub is the process-wide registry of active rooms. It owns the
// code-to-room mapping and is the only place rooms are inserted or removed.
type RoomHub struct {
	sessions       map[string]*RoomSession
	freedAt        map[string]time.Time // recently freed codes -> release time
	mu             sync.RWMutex
	roomCodeLength int
	settings       domain.Settings
	suggester      WordSuggester
	logger         *slog.Logger
	done           chan struct{}
}

// NewRoomHub creates a new room hub. A codeLength of 0 uses the default.
func NewRoomHub(settings domain.Settings, codeLength int, suggester WordSuggester, logger *slog.Logger) *RoomHub {
	if codeLength <= 0 {
		codeLength = DefaultRoomCodeLength
	}
	if settings == (domain.Settings{}) {
		settings = domain.DefaultSettings()
	}
	hub := &RoomHub{
		sessions:       make(map[string]*RoomSession),
		freedAt:        make(map[string]time.Time),
		roomCodeLength: codeLength,
		settings:       settings,
		suggester:      suggester,
		logger:         logger,
		done:           make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateRoom creates a new room in the given mode and returns its session
func (h *RoomHub) CreateRoom(mode domain.Mode) (*RoomSession, error) {
	if !mode.Valid() {
		return nil, domain.ErrInvalidMode
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Generate a code no live room holds and no recently freed room held
	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if h.codeAvailableLocked(roomCode) {
			break
		}
	}

	if !h.codeAvailableLocked(roomCode) {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	room := domain.NewRoom(roomCode, mode, h.settings)
	session := NewRoomSession(room, h.suggester, h.logger, h.release)
	h.sessions[roomCode] = session

	h.logger.Info("room created", "roomCode", roomCode, "mode", mode)

	return session, nil
}

// GetSession returns a room session by room code
func (h *RoomHub) GetSession(roomCode string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return session, nil
}

// GetSessionCount returns the number of active rooms
func (h *RoomHub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetTotalPlayerCount returns the total number of human players across all rooms
func (h *RoomHub) GetTotalPlayerCount() int {
	h.mu.RLock()
	sessions := make([]*RoomSession, 0, len(h.sessions))
	for _, session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.RUnlock()

	total := 0
	for _, session := range sessions {
		total += session.GetPlayerCount()
	}
	return total
}

// Close shuts down the hub and all rooms
func (h *RoomHub) Close() {
	close(h.done)

	h.mu.RLock()
	sessions := make([]*RoomSession, 0, len(h.sessions))
	for _, session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.RUnlock()

	for _, session := range sessions {
		session.Close("server shutting down")
	}
}

// release removes a closed room from the registry and parks its code in the
// reuse cooldown. Safe to call more than once per room.
func (h *RoomHub) release(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[roomCode]; ok {
		delete(h.sessions, roomCode)
		h.freedAt[roomCode] = time.Now()
		h.logger.Info("room removed", "roomCode", roomCode)
	}
}

// codeAvailableLocked reports whether a code is neither live nor cooling
// down. Caller must hold the lock.
func (h *RoomHub) codeAvailableLocked(roomCode string) bool {
	if _, exists := h.sessions[roomCode]; exists {
		return false
	}
	if freed, exists := h.freedAt[roomCode]; exists {
		if time.Since(freed) < CodeReuseCooldown {
			return false
		}
		delete(h.freedAt, roomCode)
	}
	return true
}

// generateRoomCode generates a random room code
func (h *RoomHub) generateRoomCode() string {
	b := make([]byte, h.roomCodeLength)
	rand.Read(b)

	code := make([]byte, h.roomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically purges expired code cooldowns and closes rooms
// nobody ever joined. Rooms with players are handled by their own
// inactivity monitor.
func (h *RoomHub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes rooms that never got a player and expired cooldowns
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	now := time.Now()

	for code, freed := range h.freedAt {
		if now.Sub(freed) >= CodeReuseCooldown {
			delete(h.freedAt, code)
		}
	}

	stale := make([]*RoomSession, 0)
	for _, session := range h.sessions {
		if now.Sub(session.GetCreatedAt()) > StaleRoomTimeout {
			stale = append(stale, session)
		}
	}
	h.mu.Unlock()

	for _, session := range stale {
		if session.GetPlayerCount() == 0 {
			h.logger.Info("stale room cleaned up", "roomCode", session.GetRoomCode())
			session.Close("room expired")
		}
	}
}
