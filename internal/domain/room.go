package domain

import (
	"sort"
	"strings"
	"time"
)

// Settings holds configurable room parameters
type Settings struct {
	RoundDuration time.Duration `json:"roundDuration"`
	RevealPause   time.Duration `json:"revealPause"`
	IdleTimeout   time.Duration `json:"idleTimeout"`
}

// DefaultSettings returns the default room settings
func DefaultSettings() Settings {
	return Settings{
		RoundDuration: 30 * time.Second,
		RevealPause:   3 * time.Second,
		IdleTimeout:   2 * time.Minute,
	}
}

// Room is the unit of isolation: membership, the active round cycle, and the
// resolved history. It is not safe for concurrent use; the owning session
// serializes all access.
type Room struct {
	Code     string           `json:"code"`
	Mode     Mode             `json:"mode"`
	Status   Status           `json:"status"`
	Round    int              `json:"round"`
	Deadline time.Time        `json:"deadline"`
	Seats    map[string]*Seat `json:"seats"`
	History  []HistoryEntry   `json:"history"`
	Settings Settings         `json:"settings"`

	// Transient round state, nil outside an active round
	Cycle *Cycle `json:"-"`

	// Previous round's valid pair, context for the next AI suggestion
	PrevPair *WordPair `json:"-"`

	// Rematch ballot: identities that voted to play again
	Ballot map[string]bool `json:"-"`

	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// NewRoom creates a new room with the given code and mode. In AI mode the
// AI teammate occupies its seat from the start.
func NewRoom(code string, mode Mode, settings Settings) *Room {
	now := time.Now()
	room := &Room{
		Code:         code,
		Mode:         mode,
		Status:       StatusWaiting,
		Seats:        make(map[string]*Seat),
		History:      make([]HistoryEntry, 0),
		Settings:     settings,
		Ballot:       make(map[string]bool),
		CreatedAt:    now,
		LastActivity: now,
	}

	if mode == ModeAI {
		room.Seats[AISeatID] = NewAISeat()
	}

	return room
}

// Join adds a human player to the room
func (r *Room) Join(playerID, name string) (*Seat, error) {
	if r.Status != StatusWaiting {
		return nil, ErrRoomStarted
	}

	if r.HumanCount() >= r.Mode.HumanSeats() {
		if r.Mode == ModeAI {
			return nil, ErrWrongMode
		}
		return nil, ErrRoomFull
	}

	seat := NewSeat(playerID, name)
	r.Seats[playerID] = seat

	return seat, nil
}

// GetSeat returns a seat by player identity
func (r *Room) GetSeat(playerID string) (*Seat, error) {
	seat, ok := r.Seats[playerID]
	if !ok {
		return nil, ErrSeatNotFound
	}
	return seat, nil
}

// HumanCount returns the number of occupied human seats
func (r *Room) HumanCount() int {
	count := 0
	for _, seat := range r.Seats {
		if !seat.IsAI {
			count++
		}
	}
	return count
}

// AISeat returns the AI seat, or nil in a pair room
func (r *Room) AISeat() *Seat {
	return r.Seats[AISeatID]
}

// ReadyToPlay reports whether the room has everyone it needs to start
func (r *Room) ReadyToPlay() bool {
	return r.Status == StatusWaiting && r.HumanCount() == r.Mode.HumanSeats()
}

// OrderedSeats returns the seats with humans first in join order and the AI
// seat last, so snapshot output and pair ordering are stable.
func (r *Room) OrderedSeats() []*Seat {
	seats := make([]*Seat, 0, len(r.Seats))
	for _, seat := range r.Seats {
		seats = append(seats, seat)
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].IsAI != seats[j].IsAI {
			return !seats[i].IsAI
		}
		if !seats[i].JoinedAt.Equal(seats[j].JoinedAt) {
			return seats[i].JoinedAt.Before(seats[j].JoinedAt)
		}
		return seats[i].ID < seats[j].ID
	})
	return seats
}

// StartRound begins the next round: round number derived from history, fresh
// cycle, deadline set from the round duration.
func (r *Room) StartRound(now time.Time) *Cycle {
	r.Round = len(r.History) + 1
	r.Cycle = NewCycle(r.Round)
	r.Status = StatusPlaying
	r.Deadline = now.Add(r.Settings.RoundDuration)
	return r.Cycle
}

// Submit records a word for the given seat in the active round
func (r *Room) Submit(playerID, rawWord string) error {
	if r.Status != StatusPlaying || r.Cycle == nil {
		return ErrInvalidStatus
	}
	if r.Cycle.Resolved {
		return ErrRoundOver
	}

	if _, ok := r.Seats[playerID]; !ok {
		return ErrSeatNotFound
	}

	word := strings.TrimSpace(rawWord)
	if word == "" {
		return ErrEmptyWord
	}

	if r.Cycle.Submitted(playerID) {
		return ErrAlreadySubmitted
	}

	// Repetition across completed rounds is rejected; two live submissions
	// matching each other is the win condition, checked at resolution.
	if r.WordUsed(word) {
		return ErrWordUsed
	}

	r.Cycle.Words[playerID] = word

	return nil
}

// RecordAIWord records the AI teammate's word for the active round. The word
// comes from the adapter already sanitized; it bypasses history validation.
func (r *Room) RecordAIWord(word string) {
	if r.Status != StatusPlaying || r.Cycle == nil || r.Cycle.Resolved {
		return
	}
	r.Cycle.Words[AISeatID] = word
	r.Cycle.AIPending = false
}

// AllSubmitted reports whether every seat has a word this round
func (r *Room) AllSubmitted() bool {
	return r.Cycle != nil && len(r.Cycle.Words) == len(r.Seats)
}

// WordUsed reports whether the word matches, case-insensitively, any
// non-sentinel word of a completed round
func (r *Room) WordUsed(word string) bool {
	lower := strings.ToLower(strings.TrimSpace(word))
	for _, entry := range r.History {
		for _, w := range entry.Words {
			if w == NoGuess {
				continue
			}
			if strings.ToLower(w) == lower {
				return true
			}
		}
	}
	return false
}

// UsedWords returns all non-sentinel words from completed rounds, lowercased.
// This is the exclusion list handed to the AI; the in-progress round is never
// included.
func (r *Room) UsedWords() []string {
	words := make([]string, 0, len(r.History)*2)
	for _, entry := range r.History {
		for _, w := range entry.Words {
			if w == NoGuess {
				continue
			}
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

// Resolve consumes the active cycle exactly once: missing seats are filled
// with the sentinel, the round is appended to history, and the room moves to
// WON on a match or COUNTDOWN otherwise. Returns false if there is nothing to
// resolve (no cycle, or already resolved).
func (r *Room) Resolve() (Outcome, bool) {
	c := r.Cycle
	if c == nil || c.Resolved || r.Status != StatusPlaying {
		return Outcome{}, false
	}
	c.Resolved = true

	words := make(map[string]string, len(r.Seats))
	for id := range r.Seats {
		w, ok := c.Words[id]
		if !ok {
			w = NoGuess
		}
		words[id] = w
	}

	entry := HistoryEntry{Round: c.Round, Words: words}
	r.History = append(r.History, entry)
	r.Cycle = nil
	r.Deadline = time.Time{}

	out := Outcome{Round: entry.Round, Entry: entry}

	seats := r.OrderedSeats()
	if len(seats) == 2 {
		first := words[seats[0].ID]
		second := words[seats[1].ID]
		if first != NoGuess && second != NoGuess {
			if strings.EqualFold(first, second) {
				out.Won = true
				out.Word = strings.ToLower(first)
			} else {
				r.PrevPair = &WordPair{Human: first, Partner: second}
			}
		}
	}

	if out.Won {
		r.Status = StatusWon
	} else {
		r.Status = StatusCountdown
	}

	return out, true
}

// VoteRematch adds a player to the rematch ballot
func (r *Room) VoteRematch(playerID string) error {
	if r.Status != StatusWon {
		return ErrInvalidStatus
	}
	seat, ok := r.Seats[playerID]
	if !ok || seat.IsAI {
		return ErrSeatNotFound
	}
	r.Ballot[playerID] = true
	return nil
}

// ReadyCount returns how many parties have signaled rematch readiness. The
// AI seat always counts as ready.
func (r *Room) ReadyCount() int {
	count := len(r.Ballot)
	if r.Mode == ModeAI {
		count++
	}
	return count
}

// ReadyTotal returns how many parties must be ready to restart
func (r *Room) ReadyTotal() int {
	return 2
}

// RematchReady reports whether every required party has voted
func (r *Room) RematchReady() bool {
	return r.Status == StatusWon && r.ReadyCount() >= r.ReadyTotal()
}

// ResetForRematch clears round state back to initial values. The caller
// starts round 1 afterwards.
func (r *Room) ResetForRematch() {
	r.History = make([]HistoryEntry, 0)
	r.Cycle = nil
	r.PrevPair = nil
	r.Ballot = make(map[string]bool)
	r.Round = 0
	r.Deadline = time.Time{}
}

// Touch updates the last activity timestamp
func (r *Room) Touch() {
	r.LastActivity = time.Now()
}

// Snapshot builds the full outward view of the room
func (r *Room) Snapshot() *RoomSnapshot {
	seats := r.OrderedSeats()
	members := make([]MemberInfo, 0, len(seats))
	for _, seat := range seats {
		submitted := r.Cycle != nil && r.Cycle.Submitted(seat.ID)
		members = append(members, MemberInfo{
			ID:        seat.ID,
			Name:      seat.Name,
			IsAI:      seat.IsAI,
			Submitted: submitted,
		})
	}

	var deadline *time.Time
	if !r.Deadline.IsZero() {
		d := r.Deadline
		deadline = &d
	}

	history := make([]HistoryEntry, len(r.History))
	copy(history, r.History)

	return &RoomSnapshot{
		Code:       r.Code,
		Mode:       r.Mode,
		Status:     r.Status,
		Round:      r.Round,
		Deadline:   deadline,
		Members:    members,
		History:    history,
		ReadyCount: r.ReadyCount(),
		ReadyTotal: r.ReadyTotal(),
	}
}
