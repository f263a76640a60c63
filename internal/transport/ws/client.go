package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"synergy/internal/app"
	"synergy/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn     *websocket.Conn
	session  *app.RoomSession
	playerID string
	limiter  *rate.Limiter
	send     chan []byte
	done     chan struct{}
	logger   *slog.Logger
	mu       sync.Mutex
	closed   bool
	joined   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.RoomSession, playerID string, logger *slog.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		playerID: playerID,
		limiter:  rate.NewLimiter(5, 10),
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "playerID", c.playerID)
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterClient(c.playerID)
		if c.hasJoined() {
			// A two-party room cannot survive losing a member
			c.session.Leave(c.playerID)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		if !c.limiter.Allow() {
			c.sendError(ErrCodeRateLimited, "Too many messages")
			continue
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgSubmitWord:
		c.handleSubmitWord(msg.Payload)
	case MsgRequestRematch:
		c.handleRequestRematch()
	case MsgLeaveRoom:
		c.handleLeaveRoom()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	displayName, ok := payloadMap["displayName"].(string)
	if !ok || displayName == "" {
		c.sendError(ErrCodeInvalidMessage, "Display name is required")
		return
	}

	_, err := c.session.Join(c.playerID, displayName)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomFull):
			c.sendError(ErrCodeRoomFull, "Room is full")
		case errors.Is(err, domain.ErrWrongMode):
			c.sendError(ErrCodeWrongMode, "This room already has its player")
		case errors.Is(err, domain.ErrRoomStarted):
			c.sendError(ErrCodeRoomStarted, "Room has already started")
		case errors.Is(err, domain.ErrRoomNotFound):
			c.sendError(ErrCodeRoomNotFound, "Room no longer exists")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}

	c.setJoined()
	c.sendConnected()
}

// handleSubmitWord handles a submit_word message
func (c *Client) handleSubmitWord(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	word, ok := payloadMap["word"].(string)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Word is required")
		return
	}

	err := c.session.SubmitWord(c.playerID, word)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyWord):
			c.sendError(ErrCodeEmptyWord, "Word cannot be empty")
		case errors.Is(err, domain.ErrWordUsed):
			c.sendError(ErrCodeWordUsed, "That word was already used in a previous round")
		case errors.Is(err, domain.ErrSeatNotFound):
			c.sendError(ErrCodeInvalidAction, "Join the room before submitting")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}
}

// handleRequestRematch handles a request_rematch message
func (c *Client) handleRequestRematch() {
	err := c.session.RequestRematch(c.playerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatNotFound):
			c.sendError(ErrCodeInvalidAction, "Join the room before voting")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}
}

// handleLeaveRoom handles a leave_room message
func (c *Client) handleLeaveRoom() {
	if c.hasJoined() {
		c.session.Leave(c.playerID)
	}
	c.Close()
}

func (c *Client) setJoined() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joined = true
}

func (c *Client) hasJoined() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joined
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		PlayerID: c.playerID,
		RoomCode: c.session.GetRoomCode(),
		Snapshot: c.session.GetSnapshot(),
	}

	msg := NewServerMessage(MsgConnected, payload)
	c.Send(msg)
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	msg := NewServerMessage(MsgError, payload)
	c.Send(msg)
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	msg := NewServerMessage(MsgPong, nil)
	c.Send(msg)
}
