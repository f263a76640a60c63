package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"synergy/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// WordSuggester produces the AI teammate's word for a round. Implementations
// must return within a bounded time; the session falls back to a local word
// on error.
type WordSuggester interface {
	NextWord(ctx context.Context, prevHuman, prevPartner string, exclude []string) (string, error)
}

// RoomSession wraps a room with concurrency control and client management.
// A single mutex serializes all room state mutation, so timer callbacks,
// submissions, and AI completions act as producers of the same guarded
// resolution event.
type RoomSession struct {
	room *domain.Room
	mu   sync.Mutex

	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex

	suggester WordSuggester
	logger    *slog.Logger

	// Timer handles, stopped and replaced on every transition so a stale
	// callback never acts on superseded state
	roundTimer  *time.Timer
	revealTimer *time.Timer
	idleTimer   *time.Timer

	// Cancels an in-flight AI request on teardown
	aiCancel context.CancelFunc

	// Detaches the room from the registry on teardown
	onRemove func(code string)

	// Event channel for broadcasting
	events chan *domain.Event
	done   chan struct{}
	closed bool
}

// NewRoomSession creates a new room session and arms the inactivity monitor
func NewRoomSession(room *domain.Room, suggester WordSuggester, logger *slog.Logger, onRemove func(code string)) *RoomSession {
	session := &RoomSession{
		room:      room,
		clients:   make(map[string]ClientConnection),
		suggester: suggester,
		logger:    logger,
		onRemove:  onRemove,
		events:    make(chan *domain.Event, 100),
		done:      make(chan struct{}),
	}

	// Start event broadcaster
	go session.eventLoop()

	session.mu.Lock()
	session.resetIdleTimerLocked()
	session.mu.Unlock()

	return session
}

// GetRoomCode returns the room code
func (s *RoomSession) GetRoomCode() string {
	return s.room.Code
}

// GetCreatedAt returns when the room was created
func (s *RoomSession) GetCreatedAt() time.Time {
	return s.room.CreatedAt
}

// GetMode returns the room mode
func (s *RoomSession) GetMode() domain.Mode {
	return s.room.Mode
}

// GetStatus returns the current room status
func (s *RoomSession) GetStatus() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Status
}

// GetPlayerCount returns the number of human players in the room
func (s *RoomSession) GetPlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.HumanCount()
}

// CanJoin checks if a new player can join the room
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.room.Status == domain.StatusWaiting &&
		s.room.HumanCount() < s.room.Mode.HumanSeats()
}

// GetSnapshot returns the current room snapshot
func (s *RoomSession) GetSnapshot() *domain.RoomSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Snapshot()
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// Join adds a human player to the room. The round starts as soon as the room
// has everyone it needs: the second human in pair mode, the first human in
// AI mode.
func (s *RoomSession) Join(playerID, name string) (*domain.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrRoomNotFound
	}

	seat, err := s.room.Join(playerID, name)
	if err != nil {
		return nil, err
	}

	s.room.Touch()
	s.resetIdleTimerLocked()

	if s.room.ReadyToPlay() {
		s.startRoundLocked()
	} else {
		s.broadcastSnapshotLocked()
	}

	return seat, nil
}

// SubmitWord records a word for a player in the active round. Validation
// errors are returned to the submitter; submissions that lose the race with
// resolution are silently ignored.
func (s *RoomSession) SubmitWord(playerID, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if s.room.Status != domain.StatusPlaying || s.room.Cycle == nil || s.room.Cycle.Resolved {
		// Late submission after resolution, not an error; tell the player why
		// nothing happened
		s.logger.Debug("late submission ignored", "roomCode", s.room.Code, "playerID", playerID)
		s.queueEvent(domain.NewPlayerEvent(domain.EventError, s.room.Code, playerID, &domain.ErrorPayload{
			Code:    "ROUND_OVER",
			Message: "The round already ended",
		}))
		return nil
	}

	if err := s.room.Submit(playerID, word); err != nil {
		if errors.Is(err, domain.ErrAlreadySubmitted) {
			return nil
		}
		return err
	}

	s.room.Touch()
	s.resetIdleTimerLocked()

	// The AI seat must also produce a word before the round can resolve
	if s.room.Mode == domain.ModeAI {
		c := s.room.Cycle
		if !c.Submitted(domain.AISeatID) && !c.AIPending {
			c.AIPending = true

			var prevHuman, prevPartner string
			if s.room.PrevPair != nil {
				prevHuman = s.room.PrevPair.Human
				prevPartner = s.room.PrevPair.Partner
			}
			exclude := s.room.UsedWords()

			go s.requestAIWord(c.Round, prevHuman, prevPartner, exclude)
		}
	}

	if s.room.AllSubmitted() {
		s.resolveLocked()
	} else {
		s.broadcastSnapshotLocked()
	}

	return nil
}

// requestAIWord asks the suggestion service for the AI seat's word and feeds
// the outcome back into the round. The adapter bounds its own time, so the
// outcome always arrives; on error a local fallback word is used instead.
func (s *RoomSession) requestAIWord(round int, prevHuman, prevPartner string, exclude []string) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.aiCancel = cancel
	s.mu.Unlock()

	word, err := s.suggester.NextWord(ctx, prevHuman, prevPartner, exclude)
	if err != nil || word == "" {
		word = FallbackWord(exclude)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("ai suggestion failed, using fallback",
				"roomCode", s.room.Code, "round", round, "word", word, "error", err)
		}
	}
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.aiCancel = nil

	if s.closed {
		return
	}

	c := s.room.Cycle
	if c == nil || c.Round != round || c.Resolved {
		// The round this request belonged to is gone
		return
	}

	s.room.RecordAIWord(word)

	if s.room.AllSubmitted() || c.TimedOut {
		s.resolveLocked()
	} else {
		s.broadcastSnapshotLocked()
	}
}

// handleRoundDeadline is the timer path of round resolution
func (s *RoomSession) handleRoundDeadline(round int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.room.Status != domain.StatusPlaying {
		return
	}

	c := s.room.Cycle
	if c == nil || c.Round != round || c.Resolved {
		return
	}

	if c.AIPending {
		// Resolution waits for the AI outcome. Fill the human side now so
		// the outcome callback resolves immediately; the adapter's own
		// deadline bounds the wait.
		for id, seat := range s.room.Seats {
			if !seat.IsAI && !c.Submitted(id) {
				c.Words[id] = domain.NoGuess
			}
		}
		c.TimedOut = true
		return
	}

	s.resolveLocked()
}

// resolveLocked is the single resolution routine both the timeout path and
// the submission path converge on. The cycle's Resolved flag guarantees it
// has an effect at most once per round. Caller must hold the lock.
func (s *RoomSession) resolveLocked() {
	s.stopRoundTimerLocked()

	outcome, ok := s.room.Resolve()
	if !ok {
		return
	}

	s.broadcastSnapshotLocked()

	if outcome.Won {
		s.logger.Info("pair matched",
			"roomCode", s.room.Code, "round", outcome.Round, "word", outcome.Word)
		s.queueEvent(domain.NewEvent(domain.EventRoundWon, s.room.Code, &domain.WinPayload{
			Round: outcome.Round,
			Word:  outcome.Word,
		}))
		return
	}

	// Short pause so clients can render the reveal before the next round
	s.revealTimer = time.AfterFunc(s.room.Settings.RevealPause, s.handleRevealDone)
}

// handleRevealDone starts the next round after the reveal pause
func (s *RoomSession) handleRevealDone() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.room.Status != domain.StatusCountdown {
		return
	}

	s.startRoundLocked()
}

// startRoundLocked enters the playing state for the next round and arms
// exactly one round timer for it. Caller must hold the lock.
func (s *RoomSession) startRoundLocked() {
	if !s.room.Status.CanTransitionTo(domain.StatusPlaying) {
		return
	}

	s.stopRoundTimerLocked()

	cycle := s.room.StartRound(time.Now())
	round := cycle.Round

	s.roundTimer = time.AfterFunc(s.room.Settings.RoundDuration, func() {
		s.handleRoundDeadline(round)
	})

	s.logger.Debug("round started", "roomCode", s.room.Code, "round", round)
	s.broadcastSnapshotLocked()
}

// RequestRematch adds a player to the rematch ballot and restarts the room
// once every required party is ready
func (s *RoomSession) RequestRematch(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if err := s.room.VoteRematch(playerID); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			// Vote arrived outside the results screen, not an error
			return nil
		}
		return err
	}

	s.room.Touch()
	s.resetIdleTimerLocked()

	s.queueEvent(domain.NewEvent(domain.EventRematchUpdate, s.room.Code, &domain.RematchPayload{
		ReadyCount: s.room.ReadyCount(),
		Total:      s.room.ReadyTotal(),
	}))

	if s.room.RematchReady() {
		s.room.ResetForRematch()
		s.startRoundLocked()
	}

	return nil
}

// Leave tears the room down; a two-party game cannot continue without either
// party
func (s *RoomSession) Leave(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	reason := "a player left the room"
	if seat, err := s.room.GetSeat(playerID); err == nil {
		reason = fmt.Sprintf("%s left the room", seat.Name)
	}

	s.closeLocked(reason)
}

// Close tears the room down with the given reason
func (s *RoomSession) Close(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked(reason)
}

// closeLocked cancels all timers, notifies members, and detaches the room
// from the registry. No zombie state survives: every timer handle is stopped
// and the registry entry is removed. Caller must hold the lock.
func (s *RoomSession) closeLocked(reason string) {
	if s.closed {
		return
	}
	s.closed = true
	s.room.Status = domain.StatusClosing

	s.stopRoundTimerLocked()
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
	if s.aiCancel != nil {
		s.aiCancel()
	}

	// Notify members directly; the event loop is about to stop
	s.sendToAll(domain.NewEvent(domain.EventRoomClosed, s.room.Code, &domain.ClosedPayload{
		Reason: reason,
	}))

	close(s.done)

	s.logger.Info("room closed", "roomCode", s.room.Code, "reason", reason)

	code := s.room.Code
	go func() {
		if s.onRemove != nil {
			s.onRemove(code)
		}
		s.closeClients()
	}()
}

// closeClients closes all client connections
func (s *RoomSession) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
}

// resetIdleTimerLocked re-arms the inactivity monitor. Caller must hold the
// lock.
func (s *RoomSession) resetIdleTimerLocked() {
	if s.closed {
		return
	}
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(s.room.Settings.IdleTimeout, s.handleIdle)
}

// handleIdle force-closes the room if it has truly been idle for the full
// window. Activity may have rescheduled the timer concurrently, so the
// elapsed idle time is re-checked before closing.
func (s *RoomSession) handleIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	idle := time.Since(s.room.LastActivity)
	if idle < s.room.Settings.IdleTimeout {
		s.idleTimer = time.AfterFunc(s.room.Settings.IdleTimeout-idle, s.handleIdle)
		return
	}

	s.closeLocked("room closed due to inactivity")
}

// stopRoundTimerLocked clears the active round timer handle. Caller must
// hold the lock.
func (s *RoomSession) stopRoundTimerLocked() {
	if s.roundTimer != nil {
		s.roundTimer.Stop()
		s.roundTimer = nil
	}
}

// broadcastSnapshotLocked queues a full room snapshot. Caller must hold the
// lock.
func (s *RoomSession) broadcastSnapshotLocked() {
	s.queueEvent(domain.NewEvent(domain.EventRoomSnapshot, s.room.Code, s.room.Snapshot()))
}

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to appropriate clients
func (s *RoomSession) broadcastEvent(event *domain.Event) {
	// If player-specific, send only to that player
	if event.PlayerID != "" {
		s.clientsMu.RLock()
		client, ok := s.clients[event.PlayerID]
		s.clientsMu.RUnlock()
		if ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	s.sendToAll(event)
}

// sendToAll sends an event to every connected client
func (s *RoomSession) sendToAll(event *domain.Event) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}
