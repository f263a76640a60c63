package domain

import "time"

// EventType represents the type of room event
type EventType string

const (
	EventRoomSnapshot  EventType = "ROOM_SNAPSHOT"
	EventRoundWon      EventType = "ROUND_WON"
	EventRematchUpdate EventType = "REMATCH_UPDATE"
	EventRoomClosed    EventType = "ROOM_CLOSED"
	EventError         EventType = "ERROR"
)

// Event represents an event produced by a room for broadcast
type Event struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	PlayerID  string      `json:"playerId,omitempty"` // If event is player-specific
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new room event
func NewEvent(eventType EventType, roomCode string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a new player-specific room event
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// RoomSnapshot is the full outward view of a room, sent after every state change
type RoomSnapshot struct {
	Code       string         `json:"code"`
	Mode       Mode           `json:"mode"`
	Status     Status         `json:"status"`
	Round      int            `json:"round"`
	Deadline   *time.Time     `json:"deadline"` // null when no round is active
	Members    []MemberInfo   `json:"members"`
	History    []HistoryEntry `json:"history"`
	ReadyCount int            `json:"readyCount"`
	ReadyTotal int            `json:"readyTotal"`
}

// WinPayload is sent when both seats match on the same word
type WinPayload struct {
	Round int    `json:"round"`
	Word  string `json:"word"`
}

// RematchPayload is sent when the rematch ballot changes
type RematchPayload struct {
	ReadyCount int `json:"readyCount"`
	Total      int `json:"total"`
}

// ClosedPayload is sent when a room is torn down
type ClosedPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload is sent to a single player when an action is rejected
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
