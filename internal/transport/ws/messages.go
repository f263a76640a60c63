package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoinRoom       MessageType = "join_room"
	MsgSubmitWord     MessageType = "submit_word"
	MsgRequestRematch MessageType = "request_rematch"
	MsgLeaveRoom      MessageType = "leave_room"
	MsgPing           MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinRoomPayload is the payload for join_room message
type JoinRoomPayload struct {
	DisplayName string `json:"displayName"`
}

// SubmitWordPayload is the payload for submit_word message
type SubmitWordPayload struct {
	Word string `json:"word"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	PlayerID string      `json:"playerId"`
	RoomCode string      `json:"roomCode"`
	Snapshot interface{} `json:"snapshot"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeWrongMode      = "WRONG_MODE"
	ErrCodeRoomStarted    = "ROOM_STARTED"
	ErrCodeEmptyWord      = "EMPTY_WORD"
	ErrCodeWordUsed       = "WORD_USED"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
